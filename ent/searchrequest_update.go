// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/Zeeeepa/airweave/ent/collection"
	"github.com/Zeeeepa/airweave/ent/predicate"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
)

// SearchRequestUpdate is the builder for updating SearchRequest entities.
type SearchRequestUpdate struct {
	config
	hooks    []Hook
	mutation *SearchRequestMutation
}

// Where appends a list predicates to the SearchRequestUpdate builder.
func (_u *SearchRequestUpdate) Where(ps ...predicate.SearchRequest) *SearchRequestUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetCollectionID sets the "collection_id" field.
func (_u *SearchRequestUpdate) SetCollectionID(v string) *SearchRequestUpdate {
	_u.mutation.SetCollectionID(v)
	return _u
}

// SetNillableCollectionID sets the "collection_id" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableCollectionID(v *string) *SearchRequestUpdate {
	if v != nil {
		_u.SetCollectionID(*v)
	}
	return _u
}

// SetOrganizationID sets the "organization_id" field.
func (_u *SearchRequestUpdate) SetOrganizationID(v string) *SearchRequestUpdate {
	_u.mutation.SetOrganizationID(v)
	return _u
}

// SetNillableOrganizationID sets the "organization_id" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableOrganizationID(v *string) *SearchRequestUpdate {
	if v != nil {
		_u.SetOrganizationID(*v)
	}
	return _u
}

// SetUserID sets the "user_id" field.
func (_u *SearchRequestUpdate) SetUserID(v string) *SearchRequestUpdate {
	_u.mutation.SetUserID(v)
	return _u
}

// SetNillableUserID sets the "user_id" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableUserID(v *string) *SearchRequestUpdate {
	if v != nil {
		_u.SetUserID(*v)
	}
	return _u
}

// ClearUserID clears the value of the "user_id" field.
func (_u *SearchRequestUpdate) ClearUserID() *SearchRequestUpdate {
	_u.mutation.ClearUserID()
	return _u
}

// SetQuery sets the "query" field.
func (_u *SearchRequestUpdate) SetQuery(v string) *SearchRequestUpdate {
	_u.mutation.SetQuery(v)
	return _u
}

// SetNillableQuery sets the "query" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableQuery(v *string) *SearchRequestUpdate {
	if v != nil {
		_u.SetQuery(*v)
	}
	return _u
}

// SetConfig sets the "config" field.
func (_u *SearchRequestUpdate) SetConfig(v map[string]interface{}) *SearchRequestUpdate {
	_u.mutation.SetConfig(v)
	return _u
}

// SetStatus sets the "status" field.
func (_u *SearchRequestUpdate) SetStatus(v searchrequest.Status) *SearchRequestUpdate {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableStatus(v *searchrequest.Status) *SearchRequestUpdate {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetWorkerID sets the "worker_id" field.
func (_u *SearchRequestUpdate) SetWorkerID(v string) *SearchRequestUpdate {
	_u.mutation.SetWorkerID(v)
	return _u
}

// SetNillableWorkerID sets the "worker_id" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableWorkerID(v *string) *SearchRequestUpdate {
	if v != nil {
		_u.SetWorkerID(*v)
	}
	return _u
}

// ClearWorkerID clears the value of the "worker_id" field.
func (_u *SearchRequestUpdate) ClearWorkerID() *SearchRequestUpdate {
	_u.mutation.ClearWorkerID()
	return _u
}

// SetClaimedAt sets the "claimed_at" field.
func (_u *SearchRequestUpdate) SetClaimedAt(v time.Time) *SearchRequestUpdate {
	_u.mutation.SetClaimedAt(v)
	return _u
}

// SetNillableClaimedAt sets the "claimed_at" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableClaimedAt(v *time.Time) *SearchRequestUpdate {
	if v != nil {
		_u.SetClaimedAt(*v)
	}
	return _u
}

// ClearClaimedAt clears the value of the "claimed_at" field.
func (_u *SearchRequestUpdate) ClearClaimedAt() *SearchRequestUpdate {
	_u.mutation.ClearClaimedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *SearchRequestUpdate) SetCompletedAt(v time.Time) *SearchRequestUpdate {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableCompletedAt(v *time.Time) *SearchRequestUpdate {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *SearchRequestUpdate) ClearCompletedAt() *SearchRequestUpdate {
	_u.mutation.ClearCompletedAt()
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *SearchRequestUpdate) SetErrorMessage(v string) *SearchRequestUpdate {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *SearchRequestUpdate) SetNillableErrorMessage(v *string) *SearchRequestUpdate {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// ClearErrorMessage clears the value of the "error_message" field.
func (_u *SearchRequestUpdate) ClearErrorMessage() *SearchRequestUpdate {
	_u.mutation.ClearErrorMessage()
	return _u
}

// SetCollection sets the "collection" edge to the Collection entity.
func (_u *SearchRequestUpdate) SetCollection(v *Collection) *SearchRequestUpdate {
	return _u.SetCollectionID(v.ID)
}

// Mutation returns the SearchRequestMutation object of the builder.
func (_u *SearchRequestUpdate) Mutation() *SearchRequestMutation {
	return _u.mutation
}

// ClearCollection clears the "collection" edge to the Collection entity.
func (_u *SearchRequestUpdate) ClearCollection() *SearchRequestUpdate {
	_u.mutation.ClearCollection()
	return _u
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *SearchRequestUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *SearchRequestUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *SearchRequestUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *SearchRequestUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *SearchRequestUpdate) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := searchrequest.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "SearchRequest.status": %w`, err)}
		}
	}
	if _u.mutation.CollectionCleared() && len(_u.mutation.CollectionIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "SearchRequest.collection"`)
	}
	return nil
}

func (_u *SearchRequestUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(searchrequest.Table, searchrequest.Columns, sqlgraph.NewFieldSpec(searchrequest.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.OrganizationID(); ok {
		_spec.SetField(searchrequest.FieldOrganizationID, field.TypeString, value)
	}
	if value, ok := _u.mutation.UserID(); ok {
		_spec.SetField(searchrequest.FieldUserID, field.TypeString, value)
	}
	if _u.mutation.UserIDCleared() {
		_spec.ClearField(searchrequest.FieldUserID, field.TypeString)
	}
	if value, ok := _u.mutation.Query(); ok {
		_spec.SetField(searchrequest.FieldQuery, field.TypeString, value)
	}
	if value, ok := _u.mutation.Config(); ok {
		_spec.SetField(searchrequest.FieldConfig, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(searchrequest.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.WorkerID(); ok {
		_spec.SetField(searchrequest.FieldWorkerID, field.TypeString, value)
	}
	if _u.mutation.WorkerIDCleared() {
		_spec.ClearField(searchrequest.FieldWorkerID, field.TypeString)
	}
	if value, ok := _u.mutation.ClaimedAt(); ok {
		_spec.SetField(searchrequest.FieldClaimedAt, field.TypeTime, value)
	}
	if _u.mutation.ClaimedAtCleared() {
		_spec.ClearField(searchrequest.FieldClaimedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(searchrequest.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(searchrequest.FieldCompletedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(searchrequest.FieldErrorMessage, field.TypeString, value)
	}
	if _u.mutation.ErrorMessageCleared() {
		_spec.ClearField(searchrequest.FieldErrorMessage, field.TypeString)
	}
	if _u.mutation.CollectionCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   searchrequest.CollectionTable,
			Columns: []string{searchrequest.CollectionColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(collection.FieldID, field.TypeString),
			},
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.CollectionIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   searchrequest.CollectionTable,
			Columns: []string{searchrequest.CollectionColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(collection.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{searchrequest.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// SearchRequestUpdateOne is the builder for updating a single SearchRequest entity.
type SearchRequestUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *SearchRequestMutation
}

// SetCollectionID sets the "collection_id" field.
func (_u *SearchRequestUpdateOne) SetCollectionID(v string) *SearchRequestUpdateOne {
	_u.mutation.SetCollectionID(v)
	return _u
}

// SetNillableCollectionID sets the "collection_id" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableCollectionID(v *string) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetCollectionID(*v)
	}
	return _u
}

// SetOrganizationID sets the "organization_id" field.
func (_u *SearchRequestUpdateOne) SetOrganizationID(v string) *SearchRequestUpdateOne {
	_u.mutation.SetOrganizationID(v)
	return _u
}

// SetNillableOrganizationID sets the "organization_id" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableOrganizationID(v *string) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetOrganizationID(*v)
	}
	return _u
}

// SetUserID sets the "user_id" field.
func (_u *SearchRequestUpdateOne) SetUserID(v string) *SearchRequestUpdateOne {
	_u.mutation.SetUserID(v)
	return _u
}

// SetNillableUserID sets the "user_id" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableUserID(v *string) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetUserID(*v)
	}
	return _u
}

// ClearUserID clears the value of the "user_id" field.
func (_u *SearchRequestUpdateOne) ClearUserID() *SearchRequestUpdateOne {
	_u.mutation.ClearUserID()
	return _u
}

// SetQuery sets the "query" field.
func (_u *SearchRequestUpdateOne) SetQuery(v string) *SearchRequestUpdateOne {
	_u.mutation.SetQuery(v)
	return _u
}

// SetNillableQuery sets the "query" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableQuery(v *string) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetQuery(*v)
	}
	return _u
}

// SetConfig sets the "config" field.
func (_u *SearchRequestUpdateOne) SetConfig(v map[string]interface{}) *SearchRequestUpdateOne {
	_u.mutation.SetConfig(v)
	return _u
}

// SetStatus sets the "status" field.
func (_u *SearchRequestUpdateOne) SetStatus(v searchrequest.Status) *SearchRequestUpdateOne {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableStatus(v *searchrequest.Status) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetWorkerID sets the "worker_id" field.
func (_u *SearchRequestUpdateOne) SetWorkerID(v string) *SearchRequestUpdateOne {
	_u.mutation.SetWorkerID(v)
	return _u
}

// SetNillableWorkerID sets the "worker_id" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableWorkerID(v *string) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetWorkerID(*v)
	}
	return _u
}

// ClearWorkerID clears the value of the "worker_id" field.
func (_u *SearchRequestUpdateOne) ClearWorkerID() *SearchRequestUpdateOne {
	_u.mutation.ClearWorkerID()
	return _u
}

// SetClaimedAt sets the "claimed_at" field.
func (_u *SearchRequestUpdateOne) SetClaimedAt(v time.Time) *SearchRequestUpdateOne {
	_u.mutation.SetClaimedAt(v)
	return _u
}

// SetNillableClaimedAt sets the "claimed_at" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableClaimedAt(v *time.Time) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetClaimedAt(*v)
	}
	return _u
}

// ClearClaimedAt clears the value of the "claimed_at" field.
func (_u *SearchRequestUpdateOne) ClearClaimedAt() *SearchRequestUpdateOne {
	_u.mutation.ClearClaimedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *SearchRequestUpdateOne) SetCompletedAt(v time.Time) *SearchRequestUpdateOne {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableCompletedAt(v *time.Time) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *SearchRequestUpdateOne) ClearCompletedAt() *SearchRequestUpdateOne {
	_u.mutation.ClearCompletedAt()
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *SearchRequestUpdateOne) SetErrorMessage(v string) *SearchRequestUpdateOne {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *SearchRequestUpdateOne) SetNillableErrorMessage(v *string) *SearchRequestUpdateOne {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// ClearErrorMessage clears the value of the "error_message" field.
func (_u *SearchRequestUpdateOne) ClearErrorMessage() *SearchRequestUpdateOne {
	_u.mutation.ClearErrorMessage()
	return _u
}

// SetCollection sets the "collection" edge to the Collection entity.
func (_u *SearchRequestUpdateOne) SetCollection(v *Collection) *SearchRequestUpdateOne {
	return _u.SetCollectionID(v.ID)
}

// Mutation returns the SearchRequestMutation object of the builder.
func (_u *SearchRequestUpdateOne) Mutation() *SearchRequestMutation {
	return _u.mutation
}

// ClearCollection clears the "collection" edge to the Collection entity.
func (_u *SearchRequestUpdateOne) ClearCollection() *SearchRequestUpdateOne {
	_u.mutation.ClearCollection()
	return _u
}

// Where appends a list predicates to the SearchRequestUpdate builder.
func (_u *SearchRequestUpdateOne) Where(ps ...predicate.SearchRequest) *SearchRequestUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *SearchRequestUpdateOne) Select(field string, fields ...string) *SearchRequestUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated SearchRequest entity.
func (_u *SearchRequestUpdateOne) Save(ctx context.Context) (*SearchRequest, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *SearchRequestUpdateOne) SaveX(ctx context.Context) *SearchRequest {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *SearchRequestUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *SearchRequestUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *SearchRequestUpdateOne) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := searchrequest.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "SearchRequest.status": %w`, err)}
		}
	}
	if _u.mutation.CollectionCleared() && len(_u.mutation.CollectionIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "SearchRequest.collection"`)
	}
	return nil
}

func (_u *SearchRequestUpdateOne) sqlSave(ctx context.Context) (_node *SearchRequest, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(searchrequest.Table, searchrequest.Columns, sqlgraph.NewFieldSpec(searchrequest.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "SearchRequest.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, searchrequest.FieldID)
		for _, f := range fields {
			if !searchrequest.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != searchrequest.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.OrganizationID(); ok {
		_spec.SetField(searchrequest.FieldOrganizationID, field.TypeString, value)
	}
	if value, ok := _u.mutation.UserID(); ok {
		_spec.SetField(searchrequest.FieldUserID, field.TypeString, value)
	}
	if _u.mutation.UserIDCleared() {
		_spec.ClearField(searchrequest.FieldUserID, field.TypeString)
	}
	if value, ok := _u.mutation.Query(); ok {
		_spec.SetField(searchrequest.FieldQuery, field.TypeString, value)
	}
	if value, ok := _u.mutation.Config(); ok {
		_spec.SetField(searchrequest.FieldConfig, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(searchrequest.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.WorkerID(); ok {
		_spec.SetField(searchrequest.FieldWorkerID, field.TypeString, value)
	}
	if _u.mutation.WorkerIDCleared() {
		_spec.ClearField(searchrequest.FieldWorkerID, field.TypeString)
	}
	if value, ok := _u.mutation.ClaimedAt(); ok {
		_spec.SetField(searchrequest.FieldClaimedAt, field.TypeTime, value)
	}
	if _u.mutation.ClaimedAtCleared() {
		_spec.ClearField(searchrequest.FieldClaimedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(searchrequest.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(searchrequest.FieldCompletedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(searchrequest.FieldErrorMessage, field.TypeString, value)
	}
	if _u.mutation.ErrorMessageCleared() {
		_spec.ClearField(searchrequest.FieldErrorMessage, field.TypeString)
	}
	if _u.mutation.CollectionCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   searchrequest.CollectionTable,
			Columns: []string{searchrequest.CollectionColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(collection.FieldID, field.TypeString),
			},
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.CollectionIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   searchrequest.CollectionTable,
			Columns: []string{searchrequest.CollectionColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(collection.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	_node = &SearchRequest{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{searchrequest.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
