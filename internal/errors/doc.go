// Package errors provides structured, actionable error messages for nanohtml.
//
// Every error carries a code from a registry, a category, a short message and
// optionally a detail, a hint and the location in a nano source file:
//
//	err := errors.New("N020").
//	    WithLocation("page.json", 3, 9).
//	    WithSuggestion("Check for a missing comma")
//
//	fmt.Print(err.Format())
//	// ERROR N020: Invalid nano source
//	//
//	//   page.json:3:9
//	//
//	//        2 │ {
//	//   →    3 │   "h1": "Hi"
//	//          │         ^
//	//        4 │   "p": "text"
//	//
//	//   Hint: Check for a missing comma
//
// # Codes
//
//   - N001-N019: encoding and decoding markup
//   - N020-N039: nano source documents
//   - N040-N059: nanohtml.json configuration
//   - N060-N079: publishing rendered pages
//   - N080-N099: playground server
//   - N100-N119: command line
package errors
