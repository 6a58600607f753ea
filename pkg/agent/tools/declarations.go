package tools

// Declaration is a transport-neutral description of one tool: its wire name
// and the argument schema advertised to the model. The live bridge converts
// these into model-specific function declarations.
type Declaration struct {
	Name        string
	Description string
	Params      []Param
}

// Param is one declared argument. Type is a JSON Schema primitive name
// ("string" or "number").
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

func str(name, desc string) Param {
	return Param{Name: name, Type: "string", Description: desc}
}

func reqStr(name, desc string) Param {
	return Param{Name: name, Type: "string", Description: desc, Required: true}
}

func num(name, desc string) Param {
	return Param{Name: name, Type: "number", Description: desc}
}
