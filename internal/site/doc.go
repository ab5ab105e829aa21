// Package site describes an application's module tree in a YAML site file
// and dispatches routes through it.
//
// A site file declares modules, their controllers and the breadcrumb filters
// attached to each. [Build] turns the file into a [Site] whose Dispatch
// method resolves a route, runs the filters of the application, every module
// on the way and the controller, and returns the request with its view bag.
//
// Example site file:
//
//	requires: ">=0.1.0"
//	urls:
//	  prettyUrl: true
//	application:
//	  id: app
//	  controllers:
//	    - id: site
//	  modules:
//	    - id: admin
//	      properties:
//	        title: Administration
//	      breadcrumbs:
//	        - labelParam: title
package site
