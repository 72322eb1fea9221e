package reports

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type CreateReportRequest struct {
	Days   int    `json:"days"`
	Format string `json:"format"`
}

type CreateReportResponse struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
	Format string `json:"format"`
	Days   int    `json:"days"`
}
