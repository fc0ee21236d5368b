package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Email    string
	FullName string
	// UserType viene de user_metadata en el signup (owner|provider|both); puede venir vacío.
	UserType string
}
