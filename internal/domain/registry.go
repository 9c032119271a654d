package domain

import "sort"

const DefaultCategoryPriority = 10

type BundleConfig struct {
	Web        bool `mapstructure:"web"`
	Email      bool `mapstructure:"email"`
	Expandable bool `mapstructure:"expandable"`
}

// NotificationType describes one registered notification type.
type NotificationType struct {
	Name     string       `mapstructure:"-"`
	Category string       `mapstructure:"category"`
	Section  string       `mapstructure:"section"`
	Icon     string       `mapstructure:"icon"`
	Bundle   BundleConfig `mapstructure:"bundle"`
}

// Category groups types for preferences and email priority.
type Category struct {
	Name       string          `mapstructure:"-"`
	Priority   int             `mapstructure:"priority"`
	UserGroups []string        `mapstructure:"user-groups"`
	Defaults   map[string]bool `mapstructure:"defaults"`
	Tooltip    string          `mapstructure:"tooltip"`
}

// Registry is the static notification type/category table.
type Registry struct {
	Categories map[string]*Category
	Types      map[string]*NotificationType
}

func NewRegistry(categories map[string]*Category, types map[string]*NotificationType) *Registry {
	if categories == nil {
		categories = map[string]*Category{}
	}
	if types == nil {
		types = map[string]*NotificationType{}
	}
	for name, c := range categories {
		c.Name = name
	}
	for name, t := range types {
		t.Name = name
	}
	return &Registry{Categories: categories, Types: types}
}

func (r *Registry) Type(name string) (*NotificationType, bool) {
	t, ok := r.Types[name]
	return t, ok
}

// TypeNames returns all registered types in stable order.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.Types))
	for name := range r.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryNames returns all categories in stable order.
func (r *Registry) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryOf returns the category of a type, "other" when unregistered.
func (r *Registry) CategoryOf(typeName string) string {
	if t, ok := r.Types[typeName]; ok && t.Category != "" {
		return t.Category
	}
	return "other"
}

func (r *Registry) Priority(typeName string) int {
	if c, ok := r.Categories[r.CategoryOf(typeName)]; ok && c.Priority > 0 {
		return c.Priority
	}
	return DefaultCategoryPriority
}

func (r *Registry) IsBundleExpandable(typeName string) bool {
	t, ok := r.Types[typeName]
	return ok && t.Bundle.Expandable
}

// CanBundle reports whether typeName bundles for the given output format.
func (r *Registry) CanBundle(typeName, outputFormat string) bool {
	t, ok := r.Types[typeName]
	if !ok {
		return false
	}
	if outputFormat == OutputEmail {
		return t.Bundle.Email
	}
	return t.Bundle.Web
}

// IsEligible reports whether user may receive notifications of category.
// A category without user-groups is open to everyone.
func (r *Registry) IsEligible(user *User, category string) bool {
	c, ok := r.Categories[category]
	if !ok || len(c.UserGroups) == 0 {
		return true
	}
	for _, g := range c.UserGroups {
		if user.InGroup(g) {
			return true
		}
	}
	return false
}

// SubscriptionDefault is the option value used when the user never set one.
func (r *Registry) SubscriptionDefault(outputFormat, category string) bool {
	c, ok := r.Categories[category]
	if !ok || c.Defaults == nil {
		return true
	}
	v, ok := c.Defaults[outputFormat]
	if !ok {
		return true
	}
	return v
}
