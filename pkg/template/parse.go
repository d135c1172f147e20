package template

// Template is a parsed template: a flat list of nodes (TextNode/ExprNode/ForNode).
type Template struct {
	Nodes []Node
}

// Parse tokenizes and parses a template body into a Template. An unclosed
// `{{#for}}` (or a stray `{{/for}}`) is a parse error.
func Parse(src string) (*Template, error) {
	blocks, err := lexBlocks(src)
	if err != nil {
		return nil, err
	}
	nodes, rest, err := parseNodes(blocks)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &RenderError{Pos: rest[0].pos, Reason: "unmatched {{/for}}"}
	}
	return &Template{Nodes: nodes}, nil
}

// parseNodes consumes blocks until it hits a FOR_END or runs out, returning
// the parsed nodes and any unconsumed remainder (used to detect mismatches).
func parseNodes(blocks []block) ([]Node, []block, error) {
	var nodes []Node
	for len(blocks) > 0 {
		b := blocks[0]
		switch b.kind {
		case blockText:
			nodes = append(nodes, TextNode{Text: b.text})
			blocks = blocks[1:]
		case blockExpr:
			e, err := parseExpr(b.text)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, ExprNode{Expr: e})
			blocks = blocks[1:]
		case blockForStart:
			pathExpr, err := parseVarAccessPath(b.text)
			if err != nil {
				return nil, nil, err
			}
			body, rest, err := parseNodes(blocks[1:])
			if err != nil {
				return nil, nil, err
			}
			if len(rest) == 0 || rest[0].kind != blockForEnd {
				return nil, nil, &RenderError{Pos: b.pos, Reason: "unclosed {{#for}}"}
			}
			nodes = append(nodes, ForNode{ArrayPath: pathExpr, Body: body})
			blocks = rest[1:]
		case blockForEnd:
			return nodes, blocks, nil
		}
	}
	return nodes, nil, nil
}
