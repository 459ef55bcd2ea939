package export

// ExportQuotesRequest contains quote export parameters
type ExportQuotesRequest struct {
	Format string `form:"format" binding:"required,oneof=csv pdf"`
	Status string `form:"status" binding:"omitempty,oneof=NEW ANALYZING QUOTE_SENT APPROVED REJECTED COMPLETED"`
}

// ExportResult is a generated report file ready to be sent to the client
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Content types for the supported export formats
const (
	ContentTypeCSV = "text/csv; charset=utf-8"
	ContentTypePDF = "application/pdf"
)
