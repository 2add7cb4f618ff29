package ir

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the schema's structural invariants.
// Returns all validation errors found (not just the first).
func (s *Schema) Validate() []error {
	var errors []*ValidationError

	if s.Structures == nil {
		return []error{&ValidationError{Code: "missing_structures", Message: "schema has no structures"}}
	}

	for _, name := range []string{ScalarString, ScalarInt, ScalarFloat, ScalarBoolean, ScalarID} {
		if s.Structures.Get(name) == nil {
			errors = append(errors, &ValidationError{
				Code:    "missing_native_scalar",
				Message: "native scalar " + name + " is not registered",
			})
		}
	}

	s.Structures.Each(func(key string, st Structure) {
		if st.StructureName() != key {
			errors = append(errors, &ValidationError{
				Code:    "structure_key_mismatch",
				Message: "structure " + st.StructureName() + " is keyed as " + key,
			})
		}
		switch t := st.(type) {
		case *ObjectType:
			errors = append(errors, s.validateFields(t)...)
		case *InputObjectType:
			seen := make(map[string]bool)
			for _, f := range t.Fields {
				if seen[f.Name] {
					errors = append(errors, &ValidationError{
						Code:    "duplicate_field",
						Message: "duplicate field " + t.Name + "." + f.Name,
					})
				}
				seen[f.Name] = true
				errors = append(errors, s.validateTypePointer(f.Type, "input field "+t.Name+"."+f.Name)...)
			}
		}
	})

	for _, root := range s.Roots() {
		if s.Structures.Get(root.Name) != nil {
			errors = append(errors, &ValidationError{
				Code:    "root_name_conflict",
				Message: "structure " + root.Name + " clashes with the " + root.Name + " root type",
			})
		}
		errors = append(errors, s.validateFields(root)...)
	}

	var result []error
	for _, e := range errors {
		result = append(result, e)
	}
	return result
}

func (s *Schema) validateFields(obj *ObjectType) []*ValidationError {
	var errors []*ValidationError
	seen := make(map[string]bool)
	for _, f := range obj.Fields {
		context := "field " + obj.Name + "." + f.Name
		if seen[f.Name] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_field",
				Message: "duplicate " + context,
			})
		}
		seen[f.Name] = true
		errors = append(errors, s.validateTypePointer(f.Type, context)...)
		for _, a := range f.Args {
			errors = append(errors, s.validateTypePointer(a.Type, context+" argument "+a.Name)...)
		}
	}
	return errors
}

// validateTypePointer walks tp and checks the closed-world and NonNull invariants.
func (s *Schema) validateTypePointer(tp TypePointer, context string) []*ValidationError {
	switch t := tp.(type) {
	case *Named:
		if s.Structures.Get(t.Name) == nil {
			return []*ValidationError{{
				Code:    "missing_type_reference",
				Message: context + " references unknown type: " + t.Name,
			}}
		}
		return nil
	case *List:
		return s.validateTypePointer(t.Items, context)
	case *NonNull:
		if t.Inner != nil && t.Inner.Kind() == KindNonNull {
			return []*ValidationError{{
				Code:    "nested_non_null",
				Message: context + " wraps NonNull in NonNull",
			}}
		}
		return s.validateTypePointer(t.Inner, context)
	default:
		return []*ValidationError{{
			Code:    "missing_type",
			Message: context + " has no type",
		}}
	}
}
