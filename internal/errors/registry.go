package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Encoding (N001-N019)
	"N001": {
		Category: CategoryDecode,
		Message:  "HTML decoding is not implemented yet",
		Detail:   "Markup can be produced from nano structures, but reading markup back into a nano structure is not supported.",
	},
	"N002": {
		Category: CategoryEncode,
		Message:  "Unsupported nano value",
		Detail:   "Nano structures may only contain null, booleans, strings, numbers, lists and objects.",
	},
	"N003": {
		Category: CategoryEncode,
		Message:  "Encoding cancelled",
		Detail:   "The context was cancelled before the markup was produced.",
	},

	// Sources (N020-N039)
	"N020": {
		Category: CategorySource,
		Message:  "Invalid nano source",
		Detail:   "The source document could not be parsed.",
	},
	"N021": {
		Category: CategorySource,
		Message:  "Unknown source format",
		Detail:   "Supported formats are json, jsonc and yaml.",
	},
	"N022": {
		Category: CategorySource,
		Message:  "Source file not found",
	},

	// Configuration (N040-N059)
	"N040": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"N041": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "nanohtml.json could not be parsed.",
	},
	"N042": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"N043": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be written",
	},

	// Publishing (N060-N079)
	"N060": {
		Category: CategoryPublish,
		Message:  "No bucket configured",
		Detail:   "Publishing needs a target bucket.",
	},
	"N061": {
		Category: CategoryPublish,
		Message:  "Upload failed",
		Detail:   "The object store rejected the upload.",
	},
	"N062": {
		Category: CategoryPublish,
		Message:  "No object key",
		Detail:   "Publishing needs a key for the rendered page.",
	},
	"N063": {
		Category: CategoryPublish,
		Message:  "AWS configuration could not be loaded",
		Detail:   "The shared config files or environment hold an invalid setting.",
	},

	// Server (N080-N099)
	"N080": {
		Category: CategoryServer,
		Message:  "Server failed",
	},
	"N081": {
		Category: CategoryServer,
		Message:  "Request body too large",
	},

	// CLI (N100-N119)
	"N100": {
		Category: CategoryCLI,
		Message:  "Unknown demo",
	},
	"N101": {
		Category: CategoryCLI,
		Message:  "Demo output did not validate",
	},
	"N102": {
		Category: CategoryCLI,
		Message:  "Could not write output",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
