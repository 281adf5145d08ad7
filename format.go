package confscan

// DefaultMarker is the substring whose presence in a document part marks the
// document as confidential.
const DefaultMarker = "confidentialityType"

// TempFilePrefix marks lock/owner files left behind by office suites.
// Files whose name starts with it are never classified.
const TempFilePrefix = "~"

// Format identifies a document format handled by one phase of a scan.
type Format int

// Format constants, in phase order.
const (
	FormatWord Format = iota + 1
	FormatExcel
	FormatPDF
)

// Formats returns the formats in the order their phases run.
// The PDF phase must come last because it depends on earlier verdicts.
func Formats() []Format {
	return []Format{FormatWord, FormatExcel, FormatPDF}
}

// String returns the file extension of the format without the dot.
func (f Format) String() string {
	switch f {
	case FormatWord:
		return "docx"
	case FormatExcel:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Pattern returns the glob pattern matching files of the format.
func (f Format) Pattern() string {
	return "*." + f.String()
}

// Phase returns the scan state active while the format is processed.
func (f Format) Phase() ScanState {
	switch f {
	case FormatWord:
		return StateWordPhase
	case FormatExcel:
		return StateExcelPhase
	case FormatPDF:
		return StatePDFPhase
	default:
		return StateIdle
	}
}

// ParseFormat returns the format for an extension such as "docx" or ".docx".
func ParseFormat(ext string) (Format, error) {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	for _, f := range Formats() {
		if f.String() == ext {
			return f, nil
		}
	}
	return 0, Errorf(EINVALID, "unknown document format %q", ext)
}
