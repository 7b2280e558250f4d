// Package registry loads named form definitions from YAML documents and keeps
// them in a concurrency-safe registry. Each document holds a `forms` map; a
// field's `required` and `invisible` keys take either a bool or a rule
// expression (see package rule) evaluated against the current values.
//
//	forms:
//	  change-password:
//	    title: Change password
//	    fields:
//	      - id: oldPassword
//	        type: password
//	        label: Enter your old password
//	        required: true
package registry
