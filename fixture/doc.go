/*
Package fixture reads declarative mock definitions from YAML or JSON files.

A fixture holds an optional configuration block and an ordered list of mocks:

	config:
	  handleUnmockedRequests: return-404
	  responseDelay: 10
	mocks:
	  - url: http://api.example.com/users/:id
	    method: GET
	    response:
	      status: 200
	      headers:
	        X-Source: fixture
	      body:
	        id: 7

Mocks are registered in file order, so earlier entries win when patterns
overlap. Fixtures are read-only inputs; nothing is written back.
*/
package fixture
