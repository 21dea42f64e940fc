package app

// Authorizer decides who may author content.
type Authorizer interface {
	IsOperator(userID int64) bool
}

// StaticOperators is an allow-list fixed at startup.
type StaticOperators struct {
	ids map[int64]struct{}
}

func NewStaticOperators(ids []int64) *StaticOperators {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &StaticOperators{ids: set}
}

func (o *StaticOperators) IsOperator(userID int64) bool {
	_, ok := o.ids[userID]
	return ok
}

