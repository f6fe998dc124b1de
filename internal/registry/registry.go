package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/heurconf/internal/params"
)

// Registry holds every discovered component type, capability, alias and
// factory for a single application instance.
type Registry struct {
	components   map[string]*ComponentType
	aliases      map[string]string
	factories    map[string]Factory
	capabilities map[string][]string
	// closure caches the transitive capability set of each component.
	closure map[string]map[string]struct{}
	byCap   map[string]map[string]struct{}
	frozen  bool
	logger  *slog.Logger
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{
		components:   make(map[string]*ComponentType),
		aliases:      make(map[string]string),
		factories:    make(map[string]Factory),
		capabilities: make(map[string][]string),
		closure:      make(map[string]map[string]struct{}),
		byCap:        make(map[string]map[string]struct{}),
		logger:       slog.Default(),
	}
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// RegisterCapability declares a capability and its direct parents. Parents
// not yet known are declared as roots. Declaring an existing capability
// again adds the new parents.
func (r *Registry) RegisterCapability(name string, parents ...string) error {
	if r.frozen {
		return &RegistrationError{Op: "register capability", Name: name, Err: ErrFrozen}
	}
	for _, n := range append([]string{name}, parents...) {
		if !params.ValidName(n) {
			return &RegistrationError{Op: "register capability", Name: n, Err: ErrInvalidName}
		}
	}
	for _, p := range parents {
		if _, ok := r.capabilities[p]; !ok {
			r.capabilities[p] = nil
		}
	}
	r.capabilities[name] = appendUnique(r.capabilities[name], parents...)
	r.reindex()
	r.logger.Debug("Registering capability.", "capability", name, "parents", parents)
	return nil
}

// Register adds a component type. Abstract types are skipped.
func (r *Registry) Register(t ComponentType) error {
	if r.frozen {
		return &RegistrationError{Op: "register", Name: t.Name, Err: ErrFrozen}
	}
	if t.Abstract {
		r.logger.Debug("Skipping abstract component type.", "name", t.Name)
		return nil
	}
	if err := r.checkNewName("register", t.Name); err != nil {
		return err
	}
	r.add(t)
	r.logger.Debug("Registering component.", "name", t.Name, "capabilities", r.Capabilities(t.Name))
	return nil
}

// RegisterAll registers every type, collecting all failures instead of
// stopping at the first one.
func (r *Registry) RegisterAll(types ...ComponentType) error {
	var errs []error
	for _, t := range types {
		if err := r.Register(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RegisterAlias makes alias resolve to target. Aliases are a single hop: an
// alias can never point at another alias.
func (r *Registry) RegisterAlias(alias, target string) error {
	const op = "register alias"
	if r.frozen {
		return &RegistrationError{Op: op, Name: alias, Err: ErrFrozen}
	}
	if !params.ValidName(alias) {
		return &RegistrationError{Op: op, Name: alias, Err: ErrInvalidName}
	}
	if _, isAlias := r.aliases[target]; isAlias {
		return &RegistrationError{Op: op, Name: alias, Err: ErrAliasCollision, Detail: fmt.Sprintf("target '%s' is itself an alias", target)}
	}
	if _, ok := r.components[target]; !ok {
		return &RegistrationError{Op: op, Name: alias, Err: ErrUnknownTarget, Detail: fmt.Sprintf("target '%s'", target)}
	}
	if _, ok := r.components[alias]; ok {
		return &RegistrationError{Op: op, Name: alias, Err: ErrAliasCollision, Detail: "a component has this name"}
	}
	if existing, ok := r.aliases[alias]; ok {
		return &RegistrationError{Op: op, Name: alias, Err: ErrAliasCollision, Detail: fmt.Sprintf("already an alias of '%s'", existing)}
	}
	r.aliases[alias] = target
	r.logger.Debug("Registering alias.", "alias", alias, "target", target)
	return nil
}

// RegisterFactory adds an external factory. The produced type is registered
// when unknown, adopted when it was registered without a constructor, and
// rejected when it already has a constructor or another factory.
func (r *Registry) RegisterFactory(f Factory) error {
	const op = "register factory"
	product := f.Produces()
	if r.frozen {
		return &RegistrationError{Op: op, Name: product.Name, Err: ErrFrozen}
	}
	if _, ok := r.factories[product.Name]; ok {
		return &RegistrationError{Op: op, Name: product.Name, Err: ErrDuplicateFactory}
	}
	if existing, ok := r.components[product.Name]; ok {
		if existing.Constructor != nil {
			return &RegistrationError{Op: op, Name: product.Name, Err: ErrAmbiguousSource}
		}
		r.factories[product.Name] = f
		r.logger.Debug("Factory adopted existing component.", "name", product.Name)
		return nil
	}
	if err := r.checkNewName(op, product.Name); err != nil {
		return err
	}
	product.Abstract = false
	product.Constructor = nil
	r.add(product)
	r.factories[product.Name] = f
	r.logger.Debug("Registering factory.", "name", product.Name)
	return nil
}

func (r *Registry) checkNewName(op, name string) error {
	if !params.ValidName(name) {
		return &RegistrationError{Op: op, Name: name, Err: ErrInvalidName}
	}
	if _, ok := r.components[name]; ok {
		return &RegistrationError{Op: op, Name: name, Err: ErrDuplicateName, Detail: "component"}
	}
	if target, ok := r.aliases[name]; ok {
		return &RegistrationError{Op: op, Name: name, Err: ErrDuplicateName, Detail: fmt.Sprintf("alias of '%s'", target)}
	}
	return nil
}

func (r *Registry) add(t ComponentType) {
	t.Capabilities = append([]string(nil), t.Capabilities...)
	for _, c := range t.Capabilities {
		if _, ok := r.capabilities[c]; !ok && c != Object {
			r.capabilities[c] = nil
		}
	}
	r.components[t.Name] = &t
	r.index(&t)
}

// reindex rebuilds the capability index after the hierarchy changed.
func (r *Registry) reindex() {
	r.closure = make(map[string]map[string]struct{}, len(r.components))
	r.byCap = make(map[string]map[string]struct{})
	for _, t := range r.components {
		r.index(t)
	}
}

// index walks the full ancestor chain of each direct capability.
func (r *Registry) index(t *ComponentType) {
	all := make(map[string]struct{})
	var walk func(c string)
	walk = func(c string) {
		if c == Object {
			return
		}
		if _, seen := all[c]; seen {
			return
		}
		all[c] = struct{}{}
		for _, p := range r.capabilities[c] {
			walk(p)
		}
	}
	for _, c := range t.Capabilities {
		walk(c)
	}

	r.closure[t.Name] = all
	for c := range all {
		set, ok := r.byCap[c]
		if !ok {
			set = make(map[string]struct{})
			r.byCap[c] = set
		}
		set[t.Name] = struct{}{}
	}
}

// ByName looks up a component, following one alias hop.
func (r *Registry) ByName(name string) (ComponentType, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	t, ok := r.components[name]
	if !ok {
		return ComponentType{}, false
	}
	return *t, true
}

// Resolve looks up a configuration name: one alias hop, then the factory
// for the product, then the type's own constructor.
func (r *Registry) Resolve(name string) (Resolved, bool) {
	var res Resolved
	if target, ok := r.aliases[name]; ok {
		res.Alias = name
		name = target
	}
	t, ok := r.components[name]
	if !ok {
		return Resolved{}, false
	}
	res.Type = *t
	res.Factory = r.factories[name]
	return res, true
}

// Factory returns the factory registered for a product name.
func (r *Registry) Factory(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// ByCapability returns every component satisfying the capability, sorted by name.
func (r *Registry) ByCapability(capability string) []ComponentType {
	set := r.byCap[capability]
	out := make([]ComponentType, 0, len(set))
	for _, name := range sortedKeys(set) {
		out = append(out, *r.components[name])
	}
	return out
}

// AllComponents returns every registered component, sorted by name.
func (r *Registry) AllComponents() []ComponentType {
	out := make([]ComponentType, 0, len(r.components))
	for _, t := range r.components {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Capabilities returns the transitive capability set of a component, sorted.
func (r *Registry) Capabilities(name string) []string {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	return sortedKeys(r.closure[name])
}

// HasCapability reports whether the capability is known.
func (r *Registry) HasCapability(capability string) bool {
	_, ok := r.capabilities[capability]
	return ok
}

// Satisfies reports whether the named component has the capability.
func (r *Registry) Satisfies(name, capability string) bool {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	_, ok := r.closure[name][capability]
	return ok
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendUnique(list []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, existing := range list {
			if existing == it {
				found = true
				break
			}
		}
		if !found {
			list = append(list, it)
		}
	}
	return list
}
