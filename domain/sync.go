package domain

import (
	"encoding/json"
	"fmt"
)

// Collection names a synchronised record set.
type Collection string

const (
	CollectionProducts            Collection = "products"
	CollectionCustomers           Collection = "customers"
	CollectionSuppliers           Collection = "suppliers"
	CollectionInvoices            Collection = "invoices"
	CollectionPayments            Collection = "payments"
	CollectionExpenses            Collection = "expenses"
	CollectionUsers               Collection = "users"
	CollectionClinicSettings      Collection = "clinicSettings"
	CollectionAccountTransactions Collection = "accountTransactions"
)

type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionDelete SyncAction = "delete"
)

// SyncPayload is implemented by every record type that can travel in the
// sync queue, plus DeletedRef for deletions.
type SyncPayload interface {
	SyncCollection() Collection
}

func (Product) SyncCollection() Collection            { return CollectionProducts }
func (Customer) SyncCollection() Collection           { return CollectionCustomers }
func (Supplier) SyncCollection() Collection           { return CollectionSuppliers }
func (Invoice) SyncCollection() Collection            { return CollectionInvoices }
func (Payment) SyncCollection() Collection            { return CollectionPayments }
func (Expense) SyncCollection() Collection            { return CollectionExpenses }
func (User) SyncCollection() Collection               { return CollectionUsers }
func (ClinicSettings) SyncCollection() Collection     { return CollectionClinicSettings }
func (AccountTransaction) SyncCollection() Collection { return CollectionAccountTransactions }

// DeletedRef is the payload of a delete operation.
type DeletedRef struct {
	Collection Collection `json:"-"`
	ID         string     `json:"id"`
}

func (r DeletedRef) SyncCollection() Collection { return r.Collection }

// SyncOperation is one pending change waiting to be sent to the remote system.
type SyncOperation struct {
	ID         string      `json:"id"`
	Timestamp  Date        `json:"timestamp"`
	Collection Collection  `json:"collection"`
	Action     SyncAction  `json:"action"`
	Payload    SyncPayload `json:"payload"`
}

type syncOperationJSON struct {
	ID         string          `json:"id"`
	Timestamp  Date            `json:"timestamp"`
	Collection Collection      `json:"collection"`
	Action     SyncAction      `json:"action"`
	Payload    json.RawMessage `json:"payload"`
}

func (op *SyncOperation) UnmarshalJSON(data []byte) error {
	var raw syncOperationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	payload, err := DecodeSyncPayload(raw.Collection, raw.Action, raw.Payload)
	if err != nil {
		return fmt.Errorf("sync operation %s: %w", raw.ID, err)
	}
	*op = SyncOperation{
		ID:         raw.ID,
		Timestamp:  raw.Timestamp,
		Collection: raw.Collection,
		Action:     raw.Action,
		Payload:    payload,
	}
	return nil
}

// DecodeSyncPayload decodes raw into the variant registered for the
// collection/action pair.
func DecodeSyncPayload(collection Collection, action SyncAction, raw json.RawMessage) (SyncPayload, error) {
	switch action {
	case ActionCreate, ActionUpdate:
	case ActionDelete:
		ref := DeletedRef{Collection: collection}
		if err := json.Unmarshal(raw, &ref); err != nil {
			return nil, err
		}
		return ref, nil
	default:
		return nil, fmt.Errorf("unknown sync action %q", action)
	}

	var (
		payload SyncPayload
		err     error
	)
	switch collection {
	case CollectionProducts:
		payload, err = decodeAs[Product](raw)
	case CollectionCustomers:
		payload, err = decodeAs[Customer](raw)
	case CollectionSuppliers:
		payload, err = decodeAs[Supplier](raw)
	case CollectionInvoices:
		payload, err = decodeAs[Invoice](raw)
	case CollectionPayments:
		payload, err = decodeAs[Payment](raw)
	case CollectionExpenses:
		payload, err = decodeAs[Expense](raw)
	case CollectionUsers:
		payload, err = decodeAs[User](raw)
	case CollectionClinicSettings:
		payload, err = decodeAs[ClinicSettings](raw)
	case CollectionAccountTransactions:
		payload, err = decodeAs[AccountTransaction](raw)
	default:
		return nil, fmt.Errorf("unknown sync collection %q", collection)
	}
	return payload, err
}

func decodeAs[T SyncPayload](raw json.RawMessage) (SyncPayload, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
