package reviews

import (
	"context"

	"petcare-marketplace/internal/domain/notifications"
	"petcare-marketplace/internal/domain/profiles"
	"petcare-marketplace/internal/domain/requests"
)

type RequestFinder interface {
	Find(ctx context.Context, id string) (requests.ServiceRequest, error)
}

type ProfileLookup interface {
	Get(ctx context.Context, id string) (profiles.Profile, error)
}

type Notifier interface {
	Notify(ctx context.Context, in notifications.Input)
}
