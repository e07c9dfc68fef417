// Package fulfillment contains the Fulfillment bounded context.
// This context manages the hand-off of paid local orders to an external
// warehouse-management system (WMS) and the synchronization of warehouse
// state back into the local order cache.
//
// Key concepts:
//   - WarehouseClient: Port interface for the remote WMS API
//   - RemoteOrder / RemoteParcel: Value objects mirroring warehouse records
//   - OrderGateway: Port to the host order system (read/write of the two
//     fulfillment metadata fields, order notes, completion status)
//   - ReadinessPolicy: Decides when a local order is eligible for hand-off
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (WMS HTTP client, webhook dispatcher, gorm store) are in the
//     infrastructure layer
package fulfillment
