// Package inflect provides the string inflection helpers used to build
// method and field names by convention.
//
// Pluralization and singularization are delegated to jinzhu/inflection (the
// same inflector GORM uses for table names), so relation names resolve the
// way the ORM resolves them. Case handling uses golang.org/x/text/cases.
//
// # Usage
//
//	inflect.Pluralize("author")      // "authors"
//	inflect.Singularize("books")     // "book"
//	inflect.Camelize("public_name")  // "publicName"
//	inflect.UpperFirst("books")      // "Books"
package inflect
