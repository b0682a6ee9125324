package sandbox

import (
	"fmt"
	"sort"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/state"
)

// Operation is a registered benchmarkable operation. Setup prepares the
// snapshot outside the measured window; Body is the measured operation.
type Operation struct {
	Module     string
	Name       string
	Components []spec.Component

	Setup func(store state.Store, a spec.Assignment) error
	Body  func(store state.Store, a spec.Assignment) error
}

func (op Operation) Spec() spec.OperationSpec {
	return spec.OperationSpec{
		Module:     op.Module,
		Name:       op.Name,
		Components: op.Components,
	}
}

// Registry holds the operation declarations supplied by runtime modules.
// Components are never inferred, only consumed as declared.
type Registry struct {
	ops  []Operation
	byID map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

func (r *Registry) Register(op Operation) error {
	if err := op.Spec().Validate(); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if op.Body == nil {
		return fmt.Errorf("register %s.%s: body is required", op.Module, op.Name)
	}
	id := op.Module + "." + op.Name
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("register: duplicate operation %s", id)
	}
	r.byID[id] = len(r.ops)
	r.ops = append(r.ops, op)
	return nil
}

func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(module, name string) (Operation, bool) {
	idx, ok := r.byID[module+"."+name]
	if !ok {
		return Operation{}, false
	}
	return r.ops[idx], true
}

// Specs returns the declarations of all registered operations in a stable
// order: by module, then by name.
func (r *Registry) Specs() []spec.OperationSpec {
	specs := make([]spec.OperationSpec, 0, len(r.ops))
	for _, op := range r.ops {
		specs = append(specs, op.Spec())
	}
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].Module != specs[j].Module {
			return specs[i].Module < specs[j].Module
		}
		return specs[i].Name < specs[j].Name
	})
	return specs
}

// Modules returns the distinct module names, sorted.
func (r *Registry) Modules() []string {
	seen := make(map[string]bool)
	var modules []string
	for _, op := range r.ops {
		if !seen[op.Module] {
			seen[op.Module] = true
			modules = append(modules, op.Module)
		}
	}
	sort.Strings(modules)
	return modules
}
