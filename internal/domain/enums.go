package domain

// FileType represents the accepted upload formats.
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeTSV  FileType = "tsv"
	FileTypeTXT  FileType = "txt"
	FileTypeXLSX FileType = "xlsx"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"csv":  FileTypeCSV,
	"tsv":  FileTypeTSV,
	"txt":  FileTypeTXT,
	"xlsx": FileTypeXLSX,
	"xlsm": FileTypeXLSX,
	"xltx": FileTypeXLSX,
	"xltm": FileTypeXLSX,
}

// IsSpreadsheet reports whether the type is parsed natively rather than decoded as text.
func (t FileType) IsSpreadsheet() bool {
	return t == FileTypeXLSX
}

// FrameCategory is the physical kind of an advertising frame.
type FrameCategory string

const (
	CategoryDigital FrameCategory = "digital"
	CategoryStatic  FrameCategory = "static"
)

// Label returns the display label used in record names.
func (c FrameCategory) Label() string {
	switch c {
	case CategoryDigital:
		return "Digital"
	case CategoryStatic:
		return "Static"
	default:
		return string(c)
	}
}

// ContractingMode is a period a frame can be booked for.
type ContractingMode string

const (
	ContractMonthly     ContractingMode = "monthly"
	ContractFourteenDay ContractingMode = "fourteen_days"
	ContractWeekly      ContractingMode = "weekly"
	ContractDaily       ContractingMode = "daily"
	ContractSpot        ContractingMode = "spot"
)

// SessionState represents the lifecycle of an upload session.
type SessionState string

const (
	SessionIdle            SessionState = "idle"
	SessionMapped          SessionState = "mapped"
	SessionPreviewed       SessionState = "previewed"
	SessionCommitting      SessionState = "committing"
	SessionDone            SessionState = "done"
	SessionPartiallyFailed SessionState = "partially_failed"
)

// Terminal reports whether no further transitions are allowed.
func (s SessionState) Terminal() bool {
	return s == SessionDone || s == SessionPartiallyFailed
}

// ErrorKind classifies a row-level problem in an error report.
type ErrorKind string

const (
	KindRowWithoutIdentifier ErrorKind = "row_without_identifier"
	KindFieldValidation      ErrorKind = "field_validation"
)

// EncodingNative tags spreadsheets that were parsed without a text decode.
const EncodingNative = "native"
