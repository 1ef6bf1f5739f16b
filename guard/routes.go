package guard

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Routes is the declarative route table.
type Routes []Route

// Lookup returns the route with the given name.
func (rs Routes) Lookup(name string) (Route, bool) {
	for _, route := range rs {
		if route.Name == name {
			return route, true
		}
	}
	return Route{}, false
}

// DefaultRoutes mirrors the dashboard's built-in route table.
func DefaultRoutes() Routes {
	return Routes{
		{Name: "login", Path: "/login", Title: "Login", Public: true},
		{Name: "dashboard", Path: "/", Title: "Dashboard", RequiresAuth: true, Permissions: []string{"dashboard:view"}},
		{Name: "pets", Path: "/pets", Title: "Pets", RequiresAuth: true, Permissions: []string{"pets:view"}},
		{Name: "bookings", Path: "/bookings", Title: "Bookings", RequiresAuth: true, Permissions: []string{"bookings:view"}},
		{Name: "withdrawals", Path: "/withdrawals", Title: "Withdrawals", RequiresAuth: true, Permissions: []string{"withdrawals:view"}},
		{Name: "terms", Path: "/terms", Title: "Terms", RequiresAuth: true, Roles: []string{"ADMIN"}},
		{Name: "users", Path: "/users", Title: "Users", RequiresAuth: true, Roles: []string{"ADMIN"}},
		{Name: "profile", Path: "/profile", Title: "Profile", RequiresAuth: true},
		{Name: "settings", Path: "/settings", Title: "Settings", RequiresAuth: true, Roles: []string{"ADMIN"}},
	}
}

// LoadRoutes reads a YAML route table, the file form of the declared
// route metadata.
func LoadRoutes(path string) (Routes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "[LoadRoutes] read")
	}
	var routes Routes
	if err := yaml.Unmarshal(data, &routes); err != nil {
		return nil, errors.Wrap(err, "[LoadRoutes] decode")
	}
	return routes, nil
}
