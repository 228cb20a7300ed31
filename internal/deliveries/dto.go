package deliveries

// AttemptDTO is the API representation of a delivery attempt.
type AttemptDTO struct {
	ID            string `json:"id"                     description:"Attempt ID"`
	EventID       string `json:"event_id"               description:"Event the attempt delivered"`
	EndpointID    string `json:"endpoint_id"            description:"Destination endpoint"`
	TenantID      string `json:"tenant_id"              description:"Tenant owning the event"`
	AttemptNumber int    `json:"attempt_number"         description:"Attempt number, starting at 1"`
	Status        Status `json:"status"                 description:"Attempt status"                         enum:"pending,success,failed,terminally_failed"`
	ResponseCode  int    `json:"response_code"          description:"HTTP status returned by the endpoint, 0 when no response"`
	Signature     string `json:"signature"              description:"Hex HMAC-SHA256 sent in the signature header"`
	Error         string `json:"error,omitempty"        description:"Failure reason"`
	CreatedAt     int64  `json:"created_at"             description:"Unix milliseconds when the attempt started"`
	CompletedAt   *int64 `json:"completed_at,omitempty" description:"Unix milliseconds when the attempt finished"`
}

func ToAttemptDTO(a Attempt) AttemptDTO {
	return AttemptDTO{
		ID:            a.ID,
		EventID:       a.EventID,
		EndpointID:    a.EndpointID,
		TenantID:      a.TenantID,
		AttemptNumber: a.AttemptNumber,
		Status:        a.Status,
		ResponseCode:  a.ResponseCode,
		Signature:     a.Signature,
		Error:         a.Error,
		CreatedAt:     a.CreatedAt,
		CompletedAt:   a.CompletedAt,
	}
}

func ToAttemptDTOs(attempts []Attempt) []AttemptDTO {
	result := make([]AttemptDTO, 0, len(attempts))
	for _, a := range attempts {
		result = append(result, ToAttemptDTO(a))
	}
	return result
}
