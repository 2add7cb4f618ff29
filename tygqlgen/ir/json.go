package ir

import "encoding/json"

// JSON serialization support for IR types.
// Every polymorphic value carries a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for Named.
func (t *Named) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{
		Kind: "Named",
		Name: t.Name,
	})
}

// MarshalJSON implements json.Marshaler for List.
func (t *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string      `json:"kind"`
		Items TypePointer `json:"items"`
	}{
		Kind:  "List",
		Items: t.Items,
	})
}

// MarshalJSON implements json.Marshaler for NonNull.
func (t *NonNull) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string      `json:"kind"`
		Type TypePointer `json:"type"`
	}{
		Kind: "NonNull",
		Type: t.Inner,
	})
}

// MarshalJSON implements json.Marshaler for ScalarType.
func (s *ScalarType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind        string  `json:"kind"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}{
		Kind:        "Scalar",
		Name:        s.Name,
		Description: nullable(s.Description),
	})
}

// MarshalJSON implements json.Marshaler for ObjectType.
func (o *ObjectType) MarshalJSON() ([]byte, error) {
	interfaces := o.Interfaces
	if interfaces == nil {
		interfaces = []string{}
	}
	fields := o.Fields
	if fields == nil {
		fields = []Field{}
	}
	return json.Marshal(&struct {
		Kind        string   `json:"kind"`
		Name        string   `json:"name"`
		Description *string  `json:"description"`
		Fields      []Field  `json:"fields"`
		Interfaces  []string `json:"interfaces"`
		GoType      string   `json:"goType,omitempty"`
	}{
		Kind:        "Object",
		Name:        o.Name,
		Description: nullable(o.Description),
		Fields:      fields,
		Interfaces:  interfaces,
		GoType:      o.GoType,
	})
}

// MarshalJSON implements json.Marshaler for InputObjectType.
func (o *InputObjectType) MarshalJSON() ([]byte, error) {
	fields := o.Fields
	if fields == nil {
		fields = []InputField{}
	}
	return json.Marshal(&struct {
		Kind        string       `json:"kind"`
		Name        string       `json:"name"`
		Description *string      `json:"description"`
		Fields      []InputField `json:"fields"`
		GoType      string       `json:"goType,omitempty"`
	}{
		Kind:        "InputObject",
		Name:        o.Name,
		Description: nullable(o.Description),
		Fields:      fields,
		GoType:      o.GoType,
	})
}

// MarshalJSON implements json.Marshaler for Field.
func (f Field) MarshalJSON() ([]byte, error) {
	args := f.Args
	if args == nil {
		args = []Arg{}
	}
	return json.Marshal(&struct {
		Kind        string      `json:"kind"`
		Name        string      `json:"name"`
		Description *string     `json:"description"`
		Type        TypePointer `json:"type"`
		Args        []Arg       `json:"args"`
		Resolution  Resolution  `json:"resolution"`
	}{
		Kind:        "Field",
		Name:        f.Name,
		Description: nullable(f.Description),
		Type:        f.Type,
		Args:        args,
		Resolution:  f.Resolution,
	})
}

// MarshalJSON implements json.Marshaler for Arg.
func (a Arg) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind        string      `json:"kind"`
		Name        string      `json:"name"`
		Description *string     `json:"description"`
		Type        TypePointer `json:"type"`
		GoType      string      `json:"goType,omitempty"`
	}{
		Kind:        "Arg",
		Name:        a.Name,
		Description: nullable(a.Description),
		Type:        a.Type,
		GoType:      a.GoType,
	})
}

// MarshalJSON implements json.Marshaler for InputField.
func (f InputField) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind        string      `json:"kind"`
		Name        string      `json:"name"`
		Description *string     `json:"description"`
		Type        TypePointer `json:"type"`
		GoName      string      `json:"goName,omitempty"`
	}{
		Kind:        "InputField",
		Name:        f.Name,
		Description: nullable(f.Description),
		Type:        f.Type,
		GoName:      f.GoName,
	})
}

// MarshalJSON implements json.Marshaler for RootResolution.
func (r *RootResolution) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string `json:"kind"`
		Module     string `json:"module"`
		ImportPath string `json:"importPath"`
		Container  string `json:"container"`
		Member     string `json:"member"`
		Call       Call   `json:"call"`
	}{
		Kind:       r.ResolutionKind().String(),
		Module:     r.Module,
		ImportPath: r.ImportPath,
		Container:  r.Container,
		Member:     r.Member,
		Call:       r.Call,
	})
}

// MarshalJSON implements json.Marshaler for ParentResolution.
func (r *ParentResolution) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string `json:"kind"`
		Member   string `json:"member"`
		Property bool   `json:"property,omitempty"`
		Call     Call   `json:"call"`
	}{
		Kind:     r.ResolutionKind().String(),
		Member:   r.Member,
		Property: r.Property,
		Call:     r.Call,
	})
}

// MarshalJSON implements json.Marshaler for Call.
func (c Call) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Context    bool   `json:"context,omitempty"`
		Error      bool   `json:"error,omitempty"`
		Deferred   string `json:"deferred"`
		ThunkError bool   `json:"thunkError,omitempty"`
	}{
		Context:    c.Context,
		Error:      c.Error,
		Deferred:   c.Deferred.String(),
		ThunkError: c.ThunkError,
	})
}

// MarshalJSON implements json.Marshaler for Structures.
// Keys are written in registration order.
func (m *Structures) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, name := range m.Names() {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.Get(name))
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

// MarshalJSON implements json.Marshaler for Schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	structures := s.Structures
	if structures == nil {
		structures = NewStructures()
	}
	imports := s.Imports
	if imports == nil {
		imports = []Import{}
	}
	return json.Marshal(&struct {
		Description  *string     `json:"description"`
		Query        *ObjectType `json:"query"`
		Mutation     *ObjectType `json:"mutation"`
		Subscription *ObjectType `json:"subscription"`
		Structures   *Structures `json:"structures"`
		Imports      []Import    `json:"imports"`
	}{
		Description:  nullable(s.Description),
		Query:        s.Query,
		Mutation:     s.Mutation,
		Subscription: s.Subscription,
		Structures:   structures,
		Imports:      imports,
	})
}

// MarshalJSON implements json.Marshaler for Import.
func (i Import) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Path string `json:"path"`
		Name string `json:"name"`
	}{
		Path: i.Path,
		Name: i.Name,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
