package source

import (
	"github.com/tidwall/jsonc"

	"xdao.co/cjson/cjson"
)

func decodeJSON(data []byte) any {
	return cjson.RawMessage(data)
}

// decodeJSONC strips comments and trailing commas.
func decodeJSONC(data []byte) any {
	return cjson.RawMessage(jsonc.ToJSON(data))
}
