package store

import "github.com/idilsaglam/items/internal/model"

// Type names an action.
type Type string

const (
	FetchItemsRequest Type = "FETCH_ITEMS_REQUEST"
	FetchItemsSuccess Type = "FETCH_ITEMS_SUCCESS"
	FetchItemsFailure Type = "FETCH_ITEMS_FAILURE"

	CreateItemRequest Type = "CREATE_ITEM_REQUEST"
	CreateItemSuccess Type = "CREATE_ITEM_SUCCESS"
	CreateItemFailure Type = "CREATE_ITEM_FAILURE"

	UpdateItemRequest Type = "UPDATE_ITEM_REQUEST"
	UpdateItemSuccess Type = "UPDATE_ITEM_SUCCESS"
	UpdateItemFailure Type = "UPDATE_ITEM_FAILURE"

	DeleteItemRequest Type = "DELETE_ITEM_REQUEST"
	DeleteItemSuccess Type = "DELETE_ITEM_SUCCESS"
	DeleteItemFailure Type = "DELETE_ITEM_FAILURE"

	SetLoadingType Type = "SET_LOADING"
)

// Action is anything the reducer can be handed.
type Action interface {
	Type() Type
}

// Intent is a requested operation that has not happened yet.
// Only the effect runner consumes intents.
type Intent interface {
	Action
	intent()
}

// Fact is the outcome of an operation. Only the effect runner produces facts.
type Fact interface {
	Action
	fact()
}

// Op identifies which of the four remote operations an action belongs to.
type Op int

const (
	OpFetch Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// ---------------------------------------------------
// Intents
// ---------------------------------------------------

type FetchRequest struct{}

type CreateRequest struct {
	Draft model.Draft
}

type UpdateRequest struct {
	ID    model.ID
	Draft model.Draft
}

type DeleteRequest struct {
	ID model.ID
}

func (FetchRequest) Type() Type  { return FetchItemsRequest }
func (CreateRequest) Type() Type { return CreateItemRequest }
func (UpdateRequest) Type() Type { return UpdateItemRequest }
func (DeleteRequest) Type() Type { return DeleteItemRequest }

func (FetchRequest) intent()  {}
func (CreateRequest) intent() {}
func (UpdateRequest) intent() {}
func (DeleteRequest) intent() {}

// ---------------------------------------------------
// Facts
// ---------------------------------------------------

type FetchSucceeded struct {
	Items []model.Item
}

type CreateSucceeded struct {
	Item model.Item
}

type UpdateSucceeded struct {
	Item model.Item
}

type DeleteSucceeded struct {
	ID model.ID
}

// Failed reports a failed call of any of the four operations.
type Failed struct {
	Op      Op
	Message string
}

func (FetchSucceeded) Type() Type  { return FetchItemsSuccess }
func (CreateSucceeded) Type() Type { return CreateItemSuccess }
func (UpdateSucceeded) Type() Type { return UpdateItemSuccess }
func (DeleteSucceeded) Type() Type { return DeleteItemSuccess }

func (f Failed) Type() Type {
	switch f.Op {
	case OpCreate:
		return CreateItemFailure
	case OpUpdate:
		return UpdateItemFailure
	case OpDelete:
		return DeleteItemFailure
	}
	return FetchItemsFailure
}

func (FetchSucceeded) fact()  {}
func (CreateSucceeded) fact() {}
func (UpdateSucceeded) fact() {}
func (DeleteSucceeded) fact() {}
func (Failed) fact()          {}

// LoadingSet toggles the loading flag. It is neither an intent nor a fact.
type LoadingSet struct {
	Loading bool
}

func (LoadingSet) Type() Type { return SetLoadingType }

// ---------------------------------------------------
// Creators
// ---------------------------------------------------

func FetchItems() Intent { return FetchRequest{} }

func CreateItem(d model.Draft) Intent { return CreateRequest{Draft: d} }

func UpdateItem(id model.ID, d model.Draft) Intent { return UpdateRequest{ID: id, Draft: d} }

func DeleteItem(id model.ID) Intent { return DeleteRequest{ID: id} }

func SetLoading(loading bool) Action { return LoadingSet{Loading: loading} }
