// Package recipes is a catalogue of documented example schemas together with
// the DSL syntax reference printed by the CLI.
package recipes

// Recipe is a named example schema.
type Recipe struct {
	Name        string
	Description string
	Schema      string
	Prompt      string // sample text an extraction prompt might pair with Schema
}

var catalogue = []Recipe{
	{
		Name:        "simple_arrays",
		Description: "Array of plain strings",
		Schema:      "[string]",
		Prompt:      "Extract tags: python, javascript, react, vue",
	},
	{
		Name:        "typed_arrays",
		Description: "Array of a special type",
		Schema:      "[email]",
		Prompt:      "Extract emails: john@example.com, jane@company.org",
	},
	{
		Name:        "constrained_arrays",
		Description: "Array with an item-count limit",
		Schema:      "[string](max=5)",
		Prompt:      "Extract up to 5 tags: python, machine learning, AI, data science",
	},
	{
		Name:        "object_arrays",
		Description: "Array of objects with item-count bounds",
		Schema:      "[{name:string, email:email}](min=1,max=10)",
		Prompt:      "Extract contacts: John Doe (john@example.com), Jane Smith (jane@company.org)",
	},
	{
		Name:        "special_types",
		Description: "Format hints for emails, URLs and timestamps",
		Schema:      "name:string, email:email, website:url?, created:datetime",
		Prompt:      "User: John Doe, email john@example.com, website https://johndoe.com, created 2024-01-15",
	},
	{
		Name:        "enums",
		Description: "Closed value sets, including the choice alias",
		Schema:      "name:string, status:enum(active,inactive,pending), priority:choice(low,medium,high)",
		Prompt:      "Task: Fix bug, status active, priority high",
	},
	{
		Name:        "union_types",
		Description: "Alternatives and nullable fields",
		Schema:      "id:string|uuid, value:string|int, content:string|null",
		Prompt:      "Record: id abc123, value 42, content null",
	},
	{
		Name:        "nested_objects",
		Description: "Objects inside objects",
		Schema:      "{user:{name:string, contact:{email:email, phones:[phone]?}}, metadata:{created:datetime, tags:[string](max=5)?}}",
		Prompt:      "User John Doe, email john@example.com, phone +1-555-0123, created 2024-01-15, tags: developer, python",
	},
	{
		Name:        "comprehensive",
		Description: "Most features combined",
		Schema:      "[{name:string(min=1,max=100), emails:[email](min=1,max=2), role:enum(admin,user,guest), profile:{bio:text?, social:[url]?}?, active:bool, last_login:datetime?}](min=1,max=20)",
		Prompt:      "Users: John Doe (john@example.com, admin, active, last login 2024-01-15), Jane Smith (jane@company.org, user, bio: Developer)",
	},
	{
		Name:        "alternative_syntax",
		Description: "array(...) and list(...) spellings",
		Schema:      "tags:array(string,max=5), contacts:list(email,min=1)",
		Prompt:      "Tags: python, react, nodejs. Contacts: john@example.com, jane@company.org",
	},
	{
		Name:        "ecommerce_product",
		Description: "Product listing with reviews",
		Schema: `{
    name:string(min=1,max=200),
    price:number(min=0),
    category:enum(electronics,clothing,books),
    images:[url](max=5)?,
    reviews:[{rating:int(1,5), comment:text}](max=10)?
}`,
		Prompt: "Wireless mouse, $24.99, electronics, rated 5: works great",
	},
	{
		Name:        "user_management",
		Description: "User records with profiles and permissions",
		Schema: `[{
    id:string|uuid,
    profile:{name:string, email:email, phone:phone?},
    status:enum(active,inactive,suspended),
    permissions:[string]?
}](min=1,max=100)`,
		Prompt: "Alice (alice@example.com) is active with admin and billing permissions",
	},
}

// All returns every recipe in catalogue order.
func All() []Recipe {
	return append([]Recipe(nil), catalogue...)
}

// Get returns the recipe with the given name.
func Get(name string) (Recipe, bool) {
	for _, r := range catalogue {
		if r.Name == name {
			return r, true
		}
	}
	return Recipe{}, false
}

// Names lists recipe names in catalogue order.
func Names() []string {
	out := make([]string, len(catalogue))
	for i, r := range catalogue {
		out[i] = r.Name
	}
	return out
}
