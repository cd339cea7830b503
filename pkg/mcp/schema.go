package mcp

import (
	"encoding/json"

	"github.com/compustack/aether/pkg/utils"
	"github.com/invopop/jsonschema"
)

type askArgs struct {
	Prompt            string `json:"prompt" jsonschema:"description=Question or instruction for the text model"`
	SystemInstruction string `json:"system_instruction,omitempty" jsonschema:"description=Optional system instruction"`
}

type imageArgs struct {
	Prompt      string `json:"prompt" jsonschema:"description=Description of the image"`
	AspectRatio string `json:"aspect_ratio,omitempty" jsonschema:"description=Aspect ratio such as 1:1 or 16:9"`
}

type speechArgs struct {
	Text  string `json:"text" jsonschema:"description=Text to speak"`
	Voice string `json:"voice,omitempty" jsonschema:"enum=Kore,enum=Puck,enum=Charon,enum=Fenrir"`
}

type videoArgs struct {
	Prompt      string `json:"prompt" jsonschema:"description=Description of the clip"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
}

type listArtifactsArgs struct {
	Capability string `json:"capability,omitempty" jsonschema:"enum=image,enum=speech,enum=video"`
}

type artifactArgs struct {
	ID string `json:"id" jsonschema:"description=Artifact id from list_artifacts"`
}

type loginArgs struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type searchArgs struct {
	Search string `json:"search,omitempty" jsonschema:"description=Case-insensitive match on name or email"`
}

type clientArgs struct {
	ID     string `json:"id,omitempty" jsonschema:"description=Existing client id; empty creates a new client"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status,omitempty" jsonschema:"enum=active,enum=lead,enum=inactive"`
}

type productArgs struct {
	ID       string `json:"id,omitempty" jsonschema:"description=Existing product id; empty creates a new product"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Price    int64  `json:"price,omitempty"`
	Stock    int    `json:"stock,omitempty"`
}

type orderArgs struct {
	ClientID  string `json:"client_id"`
	ProductID string `json:"product_id"`
	Status    string `json:"status,omitempty" jsonschema:"enum=Pending,enum=Assembling,enum=Shipped,enum=Completed"`
}

type idArgs struct {
	ID string `json:"id"`
}

type insightsArgs struct {
	Focus string `json:"focus,omitempty" jsonschema:"description=Question the analysis should answer"`
}

type emptyArgs struct{}

func reflectSchema(v any) (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return raw, nil
}
