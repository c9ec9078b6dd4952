package ticket

import "errors"

var (
	// ErrInvalidArgument is returned when a reissue is requested without a
	// subject name or user data.
	ErrInvalidArgument = errors.New("ticket.invalid_argument")

	// ErrUnavailable is returned when the issuer is constructed without the
	// codec or cookie manager it needs to produce credentials.
	ErrUnavailable = errors.New("ticket.issuer_unavailable")

	// ErrInvalidTicket is returned when a credential cannot be decoded.
	ErrInvalidTicket = errors.New("ticket.invalid")

	// ErrExpiredTicket is returned when a decoded credential is past its
	// validity window.
	ErrExpiredTicket = errors.New("ticket.expired")
)
