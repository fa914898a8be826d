package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldRecordID      = "record_id"
	FieldProduct       = "product"
	FieldCategory      = "category"
	FieldMonth         = "month"
	FieldSubtotalCents = "subtotal_cents"
	FieldSearchPattern = "search_pattern"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentSession  = "session"
	ComponentTemplate = "template"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpSearch   = "search"
	OpConfirm  = "confirm"
	OpCancel   = "cancel"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
