package constants

// PageStage marks how far a page got through the pipeline. Used in logs.
type PageStage string

const (
	PageStageRendered  PageStage = "RENDERED"
	PageStageOriented  PageStage = "ORIENTED"
	PageStageExtracted PageStage = "EXTRACTED"
	PageStageWritten   PageStage = "WRITTEN"
	PageStageFailed    PageStage = "FAILED"
)
