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
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldCategoryID = "category_id"
	FieldBillID     = "bill_id"
	FieldAmount     = "amount_cents"
	FieldEmailTo    = "email_to"
	FieldAlertCount = "alert_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAuth    = "auth"
	ComponentBudgets = "budgets"
	ComponentBills   = "bills"
	ComponentNotify  = "notify"
	ComponentAdvisor = "advisor"
	ComponentBank    = "bank"
	ComponentImport  = "import"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpEvaluate = "evaluate"
	OpRemind   = "remind"
	OpSend     = "send"
	OpSync     = "sync"
	OpImport   = "import"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
