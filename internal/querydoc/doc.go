// Package querydoc compiles declarative query documents onto flexsearch.
//
// A document file holds a list of named queries, written in YAML or CUE:
//
//	queries:
//	  - name: products-by-name
//	    select:
//	      table: Product
//	      alias: p
//	      fields:
//	        - attr: p.code
//	          distinct: true
//	    where:
//	      - attr: p.name[en]
//	        op: like
//	        value: "%shirt%"
//	    order_by:
//	      - attr: p.code
//	    limit: 20
//
// Attributes are written name, alias.name or alias.name[locale]. Tables are
// named directly (table:) or through a Go model type name (type:) that is
// resolved against the type catalog at compile time.
package querydoc
