package keeper

import (
	metrics "github.com/hashicorp/go-metrics"

	ibcmetrics "github.com/cosmos/ibc-lightclients/modules/core/metrics"
)

// emitCreateClientEvent counts a client creation
func emitCreateClientEvent(clientID, clientType string) {
	metrics.IncrCounterWithLabels(
		[]string{"ibc", "client", "create"},
		1,
		[]metrics.Label{
			{Name: ibcmetrics.LabelClientType, Value: clientType},
			{Name: ibcmetrics.LabelClientID, Value: clientID},
		},
	)
}

// emitUpdateClientEvent counts a client update
func emitUpdateClientEvent(clientID, clientType, updateType string) {
	metrics.IncrCounterWithLabels(
		[]string{"ibc", "client", "update"},
		1,
		[]metrics.Label{
			{Name: ibcmetrics.LabelClientType, Value: clientType},
			{Name: ibcmetrics.LabelClientID, Value: clientID},
			{Name: ibcmetrics.LabelUpdateType, Value: updateType},
		},
	)
}

// emitSubmitMisbehaviourEvent counts a client frozen by misbehaviour
func emitSubmitMisbehaviourEvent(clientID, clientType, msgType string) {
	metrics.IncrCounterWithLabels(
		[]string{"ibc", "client", "misbehaviour"},
		1,
		[]metrics.Label{
			{Name: ibcmetrics.LabelClientType, Value: clientType},
			{Name: ibcmetrics.LabelClientID, Value: clientID},
			{Name: ibcmetrics.LabelMsgType, Value: msgType},
		},
	)
}
