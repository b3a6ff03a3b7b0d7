package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldUserID    = "user_id"
	FieldChatID    = "chat_id"
	FieldUserName  = "user_name"
	FieldAmount    = "amount"
	FieldKind      = "kind"
	FieldMethod    = "method"
	FieldCategory  = "category"
	FieldGoalID    = "goal_id"
	FieldCommand   = "command"
	FieldQuery     = "query"
	FieldError     = "error"
	FieldOperation = "operation"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentBot     = "bot"
	ComponentStorage = "storage"
	ComponentLedger  = "ledger"
	ComponentGoals   = "goals"
	ComponentReport  = "report"
	ComponentAMQP    = "amqp"
	ComponentJournal = "journal"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names.
const (
	OpCreate  = "create"
	OpDelete  = "delete"
	OpList    = "list"
	OpAppend  = "append"
	OpSync    = "sync"
	OpRender  = "render"
	OpStartup = "startup"
)
