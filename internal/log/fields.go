package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldSuccess    = "success"
	FieldUserID     = "user_id"
	FieldCollection = "collection"
	FieldRecordID   = "record_id"
	FieldCategory   = "category"
	FieldPeriod     = "period"
	FieldAmount     = "amount"
	FieldAssetName  = "asset_name"
	FieldValue      = "value"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentAuth    = "auth"
	ComponentStore   = "store"
	ComponentBudget  = "budget"
	ComponentAsset   = "asset"
	ComponentTxn     = "transaction"
	ComponentMenu    = "menu"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpQuery    = "query"
	OpCommit   = "commit"
	OpSignIn   = "sign_in"
	OpSignUp   = "sign_up"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
