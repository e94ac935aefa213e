package common

const (
	ComponentChecker    = "checker"
	ComponentBlockStore = "block-store"
	ComponentRPCClient  = "rpc-client"
	ComponentMetrics    = "metrics"
)

var AllComponents = map[string]struct{}{
	ComponentChecker:    {},
	ComponentBlockStore: {},
	ComponentRPCClient:  {},
	ComponentMetrics:    {},
}
