package report

// Every user-facing string of the console report lives here. The rendered
// text is a contract: scripts parse this output, so field ordering and
// separator strings must not drift.
const (
	BannerPassed = "The manifest is valid."
	BannerFailed = "The manifest is not valid."
	BannerError  = "The manifest could not be validated."

	HeaderErrorFormat   = "Error #%d:"
	HeaderWarningFormat = "Warning #%d:"
	HeaderInfo          = "Info:"

	DetailLineFormat = "- %s: %s (link: %s)"
	CodeLineFormat   = "  - Code: %s"
	LineLineFormat   = "  - Line: %d"
	ColumnLineFormat = "  - Column: %d"

	PlatformSummaryHeader = "Based on the requirements specified in your manifest, your add-in can run on the following platforms:"
	PlatformBulletFormat  = "  - %s"
	PlatformAvailabilityNote = "Important: This analysis is based on the requirements specified in your manifest and does not account for any runtime calls made by your add-in. " +
		"For platform availability of specific API sets, see Office Add-in host and platform availability (https://learn.microsoft.com/office/dev/add-ins/overview/office-add-in-availability)."
	PlatformMobileNote = "Note: The platform list does not include mobile apps. You can opt in to support mobile apps when you submit your add-in."

	ExplainStatus400  = "The manifest is not well-formed XML, or it exceeds the service's size limit of 256KB."
	ExplainStatus415  = "The request Content-Type was not accepted by the validation service."
	ExplainStatus500  = "The validation service encountered an unexpected error."
	ExplainStatus503  = "The validation service has been disabled via BRS."
	ExplainTransport  = "The validation service could not be reached. Check your network connection and try again."
	ExplainUnexpected = "The validation service returned a response that could not be understood."
)
