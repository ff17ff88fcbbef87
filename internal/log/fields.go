package log

// Field names shared by every component.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldBackend     = "backend"
	FieldAction      = "action"
	FieldQueue       = "queue"
	FieldExchange    = "exchange"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldTransaction = "transaction_id"
	FieldMerchant    = "merchant"
	FieldAmountCents = "amount_cents"
	FieldCategoryID  = "category_id"
)

// Component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentPostgres  = "postgres"
	ComponentRemote    = "remote"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentBackend   = "backend"
	ComponentRateLimit = "rate_limit"
)

// Operation names.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSync     = "sync"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
