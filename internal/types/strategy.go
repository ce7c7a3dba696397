package types

// StrategyName identifies a registered strategy variant.
type StrategyName string

const (
	StrategyNameRSI  StrategyName = "rsi"
	StrategyNameMACD StrategyName = "macd"
)

type StrategyStatus string

const (
	StrategyStatusUnloaded StrategyStatus = "unloaded"
	StrategyStatusLoaded   StrategyStatus = "loaded"
)

// StrategyDescription is the introspection view of the dispatcher's active slot.
type StrategyDescription struct {
	Name   StrategyName   `json:"name"`
	Config any            `json:"config"`
	Status StrategyStatus `json:"status"`
}
