// Package schema describes the parameters a generator script declares.
//
// A script may define a global arguments() function returning a list of tables:
//
//	function arguments()
//	  return {
//	    { name = 'height', desc = 'tower height', type = 'int', default = '8', min = '1', max = '64' },
//	    { name = 'style', type = 'enum', enum = 'round,square', default = 'round' },
//	  }
//	end
//
// Each entry becomes a Parameter. The set of kinds is closed (see Kind) and unknown
// type strings are rejected when the schema is extracted, never later.
//
// Command line arguments reach main() as strings and are converted with Coerce:
//
//	p := schema.NewParameter("height", schema.Integer)
//	p.Max = 10
//	v, _ := schema.Coerce(p, "999") // v.Int == 10
//
// Coercion is lenient on purpose: "abc" becomes 0 and is then clamped. The only
// failure is a Parameter whose Kind is outside the closed set.
//
// Describe and Markdown render the parameter list for the "help" escape hatch.
package schema
