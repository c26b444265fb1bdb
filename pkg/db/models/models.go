package models

// All lists every model in dependency order for schema bootstrapping.
func All() []any {
	return []any{&Address{}, &Generator{}, &GeneratorSettings{}}
}
