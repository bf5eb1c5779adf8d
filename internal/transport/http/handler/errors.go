package handler

const (
	errInternalServer = "Internal server error"

	errInvalidEmail     = "Invalid email"
	errInvalidEmailDesc = "Please provide a valid email"

	errInvalidCode     = "Invalid code"
	errInvalidCodeDesc = "Please send a valid code in the querystring"

	errInvalidToken = "Invalid token"
)
