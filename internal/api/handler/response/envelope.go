package response

import "storeapi/internal/api/apperror"

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status   Status               `json:"status"`
	Message  string               `json:"message"`
	Data     any                  `json:"data"`
	Errors   []apperror.ErrorItem `json:"errors"`
	Metadata *Metadata            `json:"metadata"`
}

type Metadata struct {
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int   `json:"total_pages"`
}

func Success(message string, data any) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data, Errors: []apperror.ErrorItem{}}
}

func Paginated(message string, data any, metadata Metadata) Envelope {
	env := Success(message, data)
	env.Metadata = &metadata
	return env
}

func Failed(message string, items []apperror.ErrorItem) Envelope {
	if items == nil {
		items = []apperror.ErrorItem{}
	}
	return Envelope{Status: StatusFailed, Message: message, Errors: items}
}

// FromError converts err into its HTTP status and failure envelope.
func FromError(err error) (int, Envelope) {
	status, message, items := apperror.Describe(err)
	return status, Failed(message, items)
}
