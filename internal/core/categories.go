package core

// CategoryMeta is the fixed display identity of a model category.
type CategoryMeta struct {
	DisplayName string
	Icon        string
}

const (
	CategoryCheckpoint = "checkpoint"
	CategoryLora       = "lora"
	CategoryVAE        = "vae"
	CategoryControlNet = "controlnet"
	CategoryCLIP       = "clip"
	CategoryUNET       = "unet"
	CategoryUpscaler   = "upscaler"
	CategoryStyleModel = "style_model"
	CategoryGligen     = "gligen"
	CategoryGGUF       = "gguf"
)

var categoryMeta = map[string]CategoryMeta{
	CategoryCheckpoint: {DisplayName: "Checkpoints", Icon: "◆"},
	CategoryLora:       {DisplayName: "LoRAs", Icon: "✦"},
	CategoryVAE:        {DisplayName: "VAEs", Icon: "▣"},
	CategoryControlNet: {DisplayName: "ControlNets", Icon: "⛓"},
	CategoryCLIP:       {DisplayName: "CLIP Models", Icon: "❞"},
	CategoryUNET:       {DisplayName: "UNETs", Icon: "▤"},
	CategoryUpscaler:   {DisplayName: "Upscalers", Icon: "⇱"},
	CategoryStyleModel: {DisplayName: "Style Models", Icon: "✿"},
	CategoryGligen:     {DisplayName: "GLIGEN", Icon: "▦"},
	CategoryGGUF:       {DisplayName: "GGUF", Icon: "⛁"},
}

// KnownCategories lists the recognized categories in their canonical order.
var KnownCategories = []string{
	CategoryCheckpoint,
	CategoryLora,
	CategoryVAE,
	CategoryControlNet,
	CategoryCLIP,
	CategoryUNET,
	CategoryUpscaler,
	CategoryStyleModel,
	CategoryGligen,
	CategoryGGUF,
}

// MetaForCategory resolves display metadata for a category. Unknown
// categories are a deliberate fallback case: they display under their raw
// name with a generic icon.
func MetaForCategory(category string) CategoryMeta {
	if meta, ok := categoryMeta[category]; ok {
		return meta
	}
	return CategoryMeta{DisplayName: category, Icon: "•"}
}
