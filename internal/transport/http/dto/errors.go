package dto

// ErrorResponse is the uniform error envelope. Code is a stable
// machine-readable kind, Details carries kind-specific payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message}
}

func NewErrorWithDetails(code, message string, details any) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, Details: details}
}

// InsufficientInventoryDetails reports what the ledger actually had.
type InsufficientInventoryDetails struct {
	InstrumentID string `json:"instrument_id"`
	Requested    int32  `json:"requested"`
	Available    int32  `json:"available"`
}

// ConflictDetails lists the bookings blocking an approval.
type ConflictDetails struct {
	Conflicts []BookingResponse `json:"conflicts"`
}
