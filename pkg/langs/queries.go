// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package langs

var goQueries = []PreparedQuery{
	{Name: "comments", Description: "Comments (single- and multi-line)", Source: `(comment) @comment`},
	{
		Name:        "strings",
		Description: "Strings (interpreted and raw; excluding imports and struct tags)",
		Source: `
			[
				(raw_string_literal)
				(interpreted_string_literal)
				(import_spec (interpreted_string_literal)) @_ignore
				(field_declaration tag: (raw_string_literal)) @_ignore
			] @string`,
	},
	{Name: "imports", Description: "Import paths", Source: `(import_spec path: (interpreted_string_literal) @path)`},
	{Name: "type-def", Description: "Type definitions", Source: `(type_declaration) @type_decl`},
	{Name: "struct", Description: "struct type definitions", Source: `(type_declaration (type_spec type: (struct_type))) @struct`},
	{Name: "interface", Description: "interface type definitions", Source: `(type_declaration (type_spec type: (interface_type))) @interface`},
	{Name: "const", Description: "const specifications", Source: `(const_spec) @const`},
	{Name: "var", Description: "var specifications", Source: `(var_spec) @var`},
	{
		Name:        "func",
		Description: "func definitions, methods and literals",
		Source: `
			[
				(method_declaration)
				(function_declaration)
				(func_literal)
			] @func`,
	},
	{Name: "method", Description: "Method func definitions", Source: `(method_declaration) @method`},
	{Name: "free-func", Description: "Free func definitions", Source: `(function_declaration) @free_func`},
	{
		Name:        "init-func",
		Description: "func init() definitions",
		Source: `
			(function_declaration
				name: (identifier) @_ignore_name (#eq? @_ignore_name "init")
			) @init_func`,
	},
	{Name: "defer", Description: "defer statements", Source: `(defer_statement) @defer`},
	{Name: "select", Description: "select blocks", Source: `(select_statement) @select`},
	{Name: "go", Description: "go statements", Source: `(go_statement) @go`},
	{Name: "switch", Description: "switch blocks", Source: `(expression_switch_statement) @switch`},
	{Name: "labeled", Description: "Labeled statements", Source: `(labeled_statement) @labeled`},
	{Name: "goto", Description: "goto statements", Source: `(goto_statement) @goto`},
	{Name: "struct-tags", Description: "Struct tags", Source: `(field_declaration tag: (raw_string_literal) @tag)`},
}

var pythonQueries = []PreparedQuery{
	{Name: "comments", Description: "Comments", Source: `(comment) @comment`},
	{Name: "strings", Description: "String contents (raw, byte, f-strings; no interpolation)", Source: `(string_content) @string`},
	{
		Name:        "imports",
		Description: "Module names in imports",
		Source: `
			[
				(import_statement name: (dotted_name) @dn)
				(import_from_statement module_name: (dotted_name) @dn)
				(import_statement (aliased_import name: (dotted_name) @dn))
				(import_from_statement module_name: (relative_import) @ri)
			]`,
	},
	{
		// Triple quotes also make multi-line strings, so only stand-alone
		// expression statements count.
		Name:        "doc-strings",
		Description: "Docstrings (not multi-line strings in assignments)",
		Source: `
			(expression_statement
				(string
					(string_start) @_ignore_start
					(string_content) @string
					(#match? @_ignore_start "^\"\"\"")
				)
			)`,
	},
	{Name: "function-names", Description: "Function names at the definition site", Source: `(function_definition name: (identifier) @function_name)`},
	{Name: "function-calls", Description: "Function calls", Source: `(call function: (identifier) @function_name)`},
	{Name: "class", Description: "Class definitions", Source: `(class_definition) @class`},
	{Name: "def", Description: "All function definitions", Source: `(function_definition) @def`},
	{
		Name:        "methods",
		Description: "Function definitions inside class bodies",
		Source: `
			(class_definition
				body: (block
					[
						(function_definition) @method
						(decorated_definition definition: (function_definition)) @method
					]
				)
			)`,
	},
	{Name: "with", Description: "with blocks", Source: `(with_statement) @with`},
	{Name: "try", Description: "try blocks", Source: `(try_statement) @try`},
	{Name: "lambda", Description: "lambda expressions", Source: `(lambda) @lambda`},
	{Name: "globals", Description: "Module-level variables", Source: `(module (expression_statement (assignment left: (identifier) @global)))`},
	{Name: "variable-identifiers", Description: "Identifiers on the left of assignments", Source: `(assignment left: (identifier) @identifier)`},
	{Name: "identifiers", Description: "All identifiers", Source: `(identifier) @identifier`},
}

var rustQueries = []PreparedQuery{
	{Name: "comments", Description: "Comments (line and block)", Source: `[(line_comment) (block_comment)] @comment`},
	{
		Name:        "doc-comments",
		Description: "Doc comments (/// and //!)",
		Source:      `((line_comment) @line (#match? @line "^//(/|!)"))`,
	},
	{Name: "uses", Description: "Paths in use declarations", Source: `(use_declaration argument: (_) @use)`},
	{Name: "strings", Description: "String literals", Source: `[(string_literal) (raw_string_literal)] @string`},
	{Name: "attribute", Description: "Attributes", Source: `(attribute_item) @attribute`},
	{Name: "struct", Description: "struct definitions", Source: `(struct_item) @struct_item`},
	{Name: "enum", Description: "enum definitions", Source: `(enum_item) @enum_item`},
	{Name: "fn", Description: "Function definitions", Source: `(function_item) @function_item`},
	{Name: "impl-fn", Description: "Functions inside impl blocks", Source: `(impl_item body: (_ (function_item) @function))`},
	{
		Name:        "pub-fn",
		Description: "Public function definitions",
		Source: `
			(function_item
				(visibility_modifier) @_ignore_vis
				(#eq? @_ignore_vis "pub")
			) @function_item`,
	},
	{Name: "impl", Description: "impl blocks", Source: `(impl_item) @impl`},
	{Name: "trait", Description: "trait definitions", Source: `(trait_item) @trait`},
	{Name: "mod", Description: "Module declarations", Source: `(mod_item) @mod`},
	{Name: "closure", Description: "Closures", Source: `(closure_expression) @closure`},
	{Name: "unsafe", Description: "unsafe blocks", Source: `(unsafe_block) @unsafe`},
	{Name: "macro-def", Description: "macro_rules! definitions", Source: `(macro_definition) @macro`},
}

var typescriptQueries = []PreparedQuery{
	{Name: "comments", Description: "Comments", Source: `(comment) @comment`},
	{Name: "strings", Description: "String contents", Source: `[(string_fragment) (template_string)] @string`},
	{Name: "imports", Description: "Module sources of imports", Source: `(import_statement source: (string (string_fragment) @path))`},
	{Name: "class", Description: "Class declarations", Source: `(class_declaration) @class`},
	{Name: "function", Description: "Function declarations and methods", Source: `[(function_declaration) (method_definition) (arrow_function)] @function`},
	{Name: "interface", Description: "Interface declarations", Source: `(interface_declaration) @interface`},
	{Name: "enum", Description: "Enum declarations", Source: `(enum_declaration) @enum`},
	{Name: "type-alias", Description: "Type alias declarations", Source: `(type_alias_declaration) @type_alias`},
	{Name: "try-catch", Description: "try/catch blocks", Source: `(try_statement) @try`},
	{Name: "var-decl", Description: "Variable declarations", Source: `[(lexical_declaration) (variable_declaration)] @var`},
}

var cQueries = []PreparedQuery{
	{Name: "comments", Description: "Comments", Source: `(comment) @comment`},
	{Name: "strings", Description: "String literals", Source: `(string_literal) @string`},
	{Name: "includes", Description: "#include paths", Source: `(preproc_include path: (_) @path)`},
	{Name: "struct", Description: "struct definitions", Source: `(struct_specifier) @struct`},
	{Name: "enum", Description: "enum definitions", Source: `(enum_specifier) @enum`},
	{Name: "union", Description: "union definitions", Source: `(union_specifier) @union`},
	{Name: "function", Description: "Function definitions", Source: `(function_definition) @function`},
	{Name: "call-expression", Description: "Function calls", Source: `(call_expression) @call`},
	{Name: "switch", Description: "switch statements", Source: `(switch_statement) @switch`},
	{Name: "if", Description: "if statements", Source: `(if_statement) @if`},
	{Name: "for", Description: "for loops", Source: `(for_statement) @for`},
	{Name: "while", Description: "while loops", Source: `(while_statement) @while`},
	{Name: "typedef", Description: "typedef declarations", Source: `(type_definition) @typedef`},
	{Name: "identifier", Description: "All identifiers", Source: `(identifier) @identifier`},
}

var csharpQueries = []PreparedQuery{
	{Name: "comments", Description: "Comments", Source: `(comment) @comment`},
	{Name: "strings", Description: "String literals", Source: `(string_literal) @string`},
	{Name: "usings", Description: "Namespaces in using directives", Source: `(using_directive (_) @using)`},
	{Name: "class", Description: "Class declarations", Source: `(class_declaration) @class`},
	{Name: "struct", Description: "Struct declarations", Source: `(struct_declaration) @struct`},
	{Name: "enum", Description: "Enum declarations", Source: `(enum_declaration) @enum`},
	{Name: "interface", Description: "Interface declarations", Source: `(interface_declaration) @interface`},
	{Name: "method", Description: "Method declarations", Source: `(method_declaration) @method`},
	{Name: "constructor", Description: "Constructor declarations", Source: `(constructor_declaration) @constructor`},
	{Name: "property", Description: "Property declarations", Source: `(property_declaration) @property`},
	{Name: "field", Description: "Field declarations", Source: `(field_declaration) @field`},
	{Name: "attribute", Description: "Attributes", Source: `(attribute) @attribute`},
	{Name: "identifier", Description: "All identifiers", Source: `(identifier) @identifier`},
}

var hclQueries = []PreparedQuery{
	{Name: "comments", Description: "Comments", Source: `(comment) @comment`},
	{Name: "strings", Description: "String contents", Source: `(template_literal) @string`},
	{Name: "variable", Description: "variable blocks", Source: blockOfKind("variable")},
	{Name: "resource", Description: "resource blocks", Source: blockOfKind("resource")},
	{Name: "data", Description: "data blocks", Source: blockOfKind("data")},
	{Name: "output", Description: "output blocks", Source: blockOfKind("output")},
	{Name: "provider", Description: "provider blocks", Source: blockOfKind("provider")},
	{Name: "locals", Description: "locals blocks", Source: blockOfKind("locals")},
	{Name: "module", Description: "module blocks", Source: blockOfKind("module")},
	{Name: "terraform", Description: "terraform blocks", Source: blockOfKind("terraform")},
	{
		Name:        "resource-types",
		Description: "Resource type labels",
		Source: `
			(block
				(identifier) @_ignore_kind
				.
				(string_lit (template_literal) @type)
				(#eq? @_ignore_kind "resource")
			)`,
	},
	{
		Name:        "resource-names",
		Description: "Resource name labels",
		Source: `
			(block
				(identifier) @_ignore_kind
				.
				(string_lit)
				.
				(string_lit (template_literal) @name)
				(#eq? @_ignore_kind "resource")
			)`,
	},
}

func blockOfKind(kind string) string {
	return `(block (identifier) @_ignore_kind (#eq? @_ignore_kind "` + kind + `")) @block`
}
