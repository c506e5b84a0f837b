// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/Zeeeepa/airweave/ent/collection"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
)

// SearchRequestCreate is the builder for creating a SearchRequest entity.
type SearchRequestCreate struct {
	config
	mutation *SearchRequestMutation
	hooks    []Hook
}

// SetCollectionID sets the "collection_id" field.
func (_c *SearchRequestCreate) SetCollectionID(v string) *SearchRequestCreate {
	_c.mutation.SetCollectionID(v)
	return _c
}

// SetOrganizationID sets the "organization_id" field.
func (_c *SearchRequestCreate) SetOrganizationID(v string) *SearchRequestCreate {
	_c.mutation.SetOrganizationID(v)
	return _c
}

// SetUserID sets the "user_id" field.
func (_c *SearchRequestCreate) SetUserID(v string) *SearchRequestCreate {
	_c.mutation.SetUserID(v)
	return _c
}

// SetNillableUserID sets the "user_id" field if the given value is not nil.
func (_c *SearchRequestCreate) SetNillableUserID(v *string) *SearchRequestCreate {
	if v != nil {
		_c.SetUserID(*v)
	}
	return _c
}

// SetQuery sets the "query" field.
func (_c *SearchRequestCreate) SetQuery(v string) *SearchRequestCreate {
	_c.mutation.SetQuery(v)
	return _c
}

// SetConfig sets the "config" field.
func (_c *SearchRequestCreate) SetConfig(v map[string]interface{}) *SearchRequestCreate {
	_c.mutation.SetConfig(v)
	return _c
}

// SetStatus sets the "status" field.
func (_c *SearchRequestCreate) SetStatus(v searchrequest.Status) *SearchRequestCreate {
	_c.mutation.SetStatus(v)
	return _c
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_c *SearchRequestCreate) SetNillableStatus(v *searchrequest.Status) *SearchRequestCreate {
	if v != nil {
		_c.SetStatus(*v)
	}
	return _c
}

// SetWorkerID sets the "worker_id" field.
func (_c *SearchRequestCreate) SetWorkerID(v string) *SearchRequestCreate {
	_c.mutation.SetWorkerID(v)
	return _c
}

// SetNillableWorkerID sets the "worker_id" field if the given value is not nil.
func (_c *SearchRequestCreate) SetNillableWorkerID(v *string) *SearchRequestCreate {
	if v != nil {
		_c.SetWorkerID(*v)
	}
	return _c
}

// SetClaimedAt sets the "claimed_at" field.
func (_c *SearchRequestCreate) SetClaimedAt(v time.Time) *SearchRequestCreate {
	_c.mutation.SetClaimedAt(v)
	return _c
}

// SetNillableClaimedAt sets the "claimed_at" field if the given value is not nil.
func (_c *SearchRequestCreate) SetNillableClaimedAt(v *time.Time) *SearchRequestCreate {
	if v != nil {
		_c.SetClaimedAt(*v)
	}
	return _c
}

// SetCompletedAt sets the "completed_at" field.
func (_c *SearchRequestCreate) SetCompletedAt(v time.Time) *SearchRequestCreate {
	_c.mutation.SetCompletedAt(v)
	return _c
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_c *SearchRequestCreate) SetNillableCompletedAt(v *time.Time) *SearchRequestCreate {
	if v != nil {
		_c.SetCompletedAt(*v)
	}
	return _c
}

// SetErrorMessage sets the "error_message" field.
func (_c *SearchRequestCreate) SetErrorMessage(v string) *SearchRequestCreate {
	_c.mutation.SetErrorMessage(v)
	return _c
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_c *SearchRequestCreate) SetNillableErrorMessage(v *string) *SearchRequestCreate {
	if v != nil {
		_c.SetErrorMessage(*v)
	}
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *SearchRequestCreate) SetCreatedAt(v time.Time) *SearchRequestCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *SearchRequestCreate) SetNillableCreatedAt(v *time.Time) *SearchRequestCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *SearchRequestCreate) SetID(v string) *SearchRequestCreate {
	_c.mutation.SetID(v)
	return _c
}

// SetCollection sets the "collection" edge to the Collection entity.
func (_c *SearchRequestCreate) SetCollection(v *Collection) *SearchRequestCreate {
	return _c.SetCollectionID(v.ID)
}

// Mutation returns the SearchRequestMutation object of the builder.
func (_c *SearchRequestCreate) Mutation() *SearchRequestMutation {
	return _c.mutation
}

// Save creates the SearchRequest in the database.
func (_c *SearchRequestCreate) Save(ctx context.Context) (*SearchRequest, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *SearchRequestCreate) SaveX(ctx context.Context) *SearchRequest {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *SearchRequestCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *SearchRequestCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *SearchRequestCreate) defaults() {
	if _, ok := _c.mutation.Status(); !ok {
		v := searchrequest.DefaultStatus
		_c.mutation.SetStatus(v)
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := searchrequest.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *SearchRequestCreate) check() error {
	if _, ok := _c.mutation.CollectionID(); !ok {
		return &ValidationError{Name: "collection_id", err: errors.New(`ent: missing required field "SearchRequest.collection_id"`)}
	}
	if _, ok := _c.mutation.OrganizationID(); !ok {
		return &ValidationError{Name: "organization_id", err: errors.New(`ent: missing required field "SearchRequest.organization_id"`)}
	}
	if _, ok := _c.mutation.Query(); !ok {
		return &ValidationError{Name: "query", err: errors.New(`ent: missing required field "SearchRequest.query"`)}
	}
	if _, ok := _c.mutation.Config(); !ok {
		return &ValidationError{Name: "config", err: errors.New(`ent: missing required field "SearchRequest.config"`)}
	}
	if _, ok := _c.mutation.Status(); !ok {
		return &ValidationError{Name: "status", err: errors.New(`ent: missing required field "SearchRequest.status"`)}
	}
	if v, ok := _c.mutation.Status(); ok {
		if err := searchrequest.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "SearchRequest.status": %w`, err)}
		}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "SearchRequest.created_at"`)}
	}
	if len(_c.mutation.CollectionIDs()) == 0 {
		return &ValidationError{Name: "collection", err: errors.New(`ent: missing required edge "SearchRequest.collection"`)}
	}
	return nil
}

func (_c *SearchRequestCreate) sqlSave(ctx context.Context) (*SearchRequest, error) {
	if err := _c.check(); err != nil {
		return nil, err
	}
	_node, _spec := _c.createSpec()
	if err := sqlgraph.CreateNode(ctx, _c.driver, _spec); err != nil {
		if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	if _spec.ID.Value != nil {
		if id, ok := _spec.ID.Value.(string); ok {
			_node.ID = id
		} else {
			return nil, fmt.Errorf("unexpected SearchRequest.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *SearchRequestCreate) createSpec() (*SearchRequest, *sqlgraph.CreateSpec) {
	var (
		_node = &SearchRequest{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(searchrequest.Table, sqlgraph.NewFieldSpec(searchrequest.FieldID, field.TypeString))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.OrganizationID(); ok {
		_spec.SetField(searchrequest.FieldOrganizationID, field.TypeString, value)
		_node.OrganizationID = value
	}
	if value, ok := _c.mutation.UserID(); ok {
		_spec.SetField(searchrequest.FieldUserID, field.TypeString, value)
		_node.UserID = &value
	}
	if value, ok := _c.mutation.Query(); ok {
		_spec.SetField(searchrequest.FieldQuery, field.TypeString, value)
		_node.Query = value
	}
	if value, ok := _c.mutation.Config(); ok {
		_spec.SetField(searchrequest.FieldConfig, field.TypeJSON, value)
		_node.Config = value
	}
	if value, ok := _c.mutation.Status(); ok {
		_spec.SetField(searchrequest.FieldStatus, field.TypeEnum, value)
		_node.Status = value
	}
	if value, ok := _c.mutation.WorkerID(); ok {
		_spec.SetField(searchrequest.FieldWorkerID, field.TypeString, value)
		_node.WorkerID = &value
	}
	if value, ok := _c.mutation.ClaimedAt(); ok {
		_spec.SetField(searchrequest.FieldClaimedAt, field.TypeTime, value)
		_node.ClaimedAt = &value
	}
	if value, ok := _c.mutation.CompletedAt(); ok {
		_spec.SetField(searchrequest.FieldCompletedAt, field.TypeTime, value)
		_node.CompletedAt = &value
	}
	if value, ok := _c.mutation.ErrorMessage(); ok {
		_spec.SetField(searchrequest.FieldErrorMessage, field.TypeString, value)
		_node.ErrorMessage = &value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(searchrequest.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if nodes := _c.mutation.CollectionIDs(); len(nodes) > 0 {
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
		_node.CollectionID = nodes[0]
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// SearchRequestCreateBulk is the builder for creating many SearchRequest entities in bulk.
type SearchRequestCreateBulk struct {
	config
	err      error
	builders []*SearchRequestCreate
}

// Save creates the SearchRequest entities in the database.
func (_c *SearchRequestCreateBulk) Save(ctx context.Context) ([]*SearchRequest, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*SearchRequest, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*SearchRequestMutation)
				if !ok {
					return nil, fmt.Errorf("unexpected mutation type %T", m)
				}
				if err := builder.check(); err != nil {
					return nil, err
				}
				builder.mutation = mutation
				var err error
				nodes[i], specs[i] = builder.createSpec()
				if i < len(mutators)-1 {
					_, err = mutators[i+1].Mutate(root, _c.builders[i+1].mutation)
				} else {
					spec := &sqlgraph.BatchCreateSpec{Nodes: specs}
					// Invoke the actual operation on the latest mutation in the chain.
					if err = sqlgraph.BatchCreate(ctx, _c.driver, spec); err != nil {
						if sqlgraph.IsConstraintError(err) {
							err = &ConstraintError{msg: err.Error(), wrap: err}
						}
					}
				}
				if err != nil {
					return nil, err
				}
				mutation.id = &nodes[i].ID
				mutation.done = true
				return nodes[i], nil
			})
			for i := len(builder.hooks) - 1; i >= 0; i-- {
				mut = builder.hooks[i](mut)
			}
			mutators[i] = mut
		}(i, ctx)
	}
	if len(mutators) > 0 {
		if _, err := mutators[0].Mutate(ctx, _c.builders[0].mutation); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// SaveX is like Save, but panics if an error occurs.
func (_c *SearchRequestCreateBulk) SaveX(ctx context.Context) []*SearchRequest {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *SearchRequestCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *SearchRequestCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
