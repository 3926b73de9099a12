// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transfer

import "mysqlsync/cli/internal/endpoint"

// Route is one of the four ways content moves between endpoints.
type Route int

const (
	RouteScriptToDatabase Route = iota
	RouteScriptToScript
	RouteDatabaseToScript
	RouteDatabaseToDatabase
)

func (r Route) String() string {
	switch r {
	case RouteScriptToDatabase:
		return "script→database"
	case RouteScriptToScript:
		return "script→script"
	case RouteDatabaseToScript:
		return "database→script"
	case RouteDatabaseToDatabase:
		return "database→database"
	default:
		return "unknown"
	}
}

// Describe explains what the route does, for what-if output.
func (r Route) Describe() string {
	switch r {
	case RouteScriptToDatabase:
		return "run the source script against the destination database"
	case RouteScriptToScript:
		return "append the source script to the destination script"
	case RouteDatabaseToScript:
		return "dump the source database and append the dump to the destination script"
	case RouteDatabaseToDatabase:
		return "dump the source database and run the dump against the destination database"
	default:
		return ""
	}
}

// SelectRoute picks the route for a source/destination pair. It is pure: no
// parsing, no filesystem access.
func SelectRoute(src, dst endpoint.Endpoint) Route {
	switch {
	case src.IsFile() && dst.IsDatabase():
		return RouteScriptToDatabase
	case src.IsFile() && dst.IsFile():
		return RouteScriptToScript
	case src.IsDatabase() && dst.IsFile():
		return RouteDatabaseToScript
	default:
		return RouteDatabaseToDatabase
	}
}
