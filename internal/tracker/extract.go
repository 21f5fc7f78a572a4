// Package tracker records model loads extracted from workflow executions.
package tracker

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/modelpulse/modelpulse/internal/core"
)

// ModelRef is one model reference pulled out of a workflow prompt.
type ModelRef struct {
	Category string
	Name     string
	ModelID  string
}

type loaderSpec struct {
	category  string
	inputKeys []string
}

// Standard loader node classes and the input keys carrying the model name.
var modelLoaders = map[string]loaderSpec{
	"CheckpointLoaderSimple": {core.CategoryCheckpoint, []string{"ckpt_name"}},
	"CheckpointLoader":       {core.CategoryCheckpoint, []string{"ckpt_name"}},

	"LoraLoader":          {core.CategoryLora, []string{"lora_name"}},
	"LoraLoaderModelOnly": {core.CategoryLora, []string{"lora_name"}},

	"VAELoader": {core.CategoryVAE, []string{"vae_name"}},

	"ControlNetLoader": {core.CategoryControlNet, []string{"control_net_name"}},

	"CLIPLoader":     {core.CategoryCLIP, []string{"clip_name"}},
	"DualCLIPLoader": {core.CategoryCLIP, []string{"clip_name1", "clip_name2"}},

	"UNETLoader": {core.CategoryUNET, []string{"unet_name"}},

	"UpscaleModelLoader": {core.CategoryUpscaler, []string{"model_name"}},

	"StyleModelLoader": {core.CategoryStyleModel, []string{"style_model_name"}},

	"GLIGENLoader": {core.CategoryGligen, []string{"gligen_name"}},

	"UnetLoaderGGUF":         {core.CategoryGGUF, []string{"unet_name"}},
	"UnetLoaderGGUFAdvanced": {core.CategoryGGUF, []string{"unet_name"}},
	"CLIPLoaderGGUF":         {core.CategoryGGUF, []string{"clip_name"}},
	"DualCLIPLoaderGGUF":     {core.CategoryGGUF, []string{"clip_name1", "clip_name2"}},
	"TripleCLIPLoaderGGUF":   {core.CategoryGGUF, []string{"clip_name1", "clip_name2", "clip_name3"}},
	"QuadrupleCLIPLoaderGGUF": {core.CategoryGGUF, []string{
		"clip_name1", "clip_name2", "clip_name3", "clip_name4",
	}},
}

type loaderPattern struct {
	substr       string
	category     string
	possibleKeys []string
}

// Fallback patterns for custom loader nodes not in the exact table. Checked
// in order; only the first matching pattern is used, and within it only the
// first input key that holds a string.
var loaderPatterns = []loaderPattern{
	{"Checkpoint", core.CategoryCheckpoint, []string{"ckpt_name", "checkpoint", "model_name"}},
	{"Lora", core.CategoryLora, []string{"lora_name", "lora"}},
	{"VAE", core.CategoryVAE, []string{"vae_name", "vae"}},
	{"ControlNet", core.CategoryControlNet, []string{"control_net_name", "controlnet", "control_net"}},
	{"CLIP", core.CategoryCLIP, []string{"clip_name", "clip"}},
	{"UNET", core.CategoryUNET, []string{"unet_name", "unet"}},
	{"Upscale", core.CategoryUpscaler, []string{"model_name", "upscale_model"}},
}

// ExtractModels pulls every model reference out of a workflow prompt
// document: a JSON object mapping node ids to {class_type, inputs}.
// References are de-duplicated by model id within one prompt.
func ExtractModels(prompt []byte) []ModelRef {
	root := gjson.ParseBytes(prompt)
	if !root.IsObject() {
		return nil
	}

	var models []ModelRef
	seen := make(map[string]bool)

	add := func(refs []ModelRef) {
		for _, ref := range refs {
			if !seen[ref.ModelID] {
				seen[ref.ModelID] = true
				models = append(models, ref)
			}
		}
	}

	root.ForEach(func(_, node gjson.Result) bool {
		classType := node.Get("class_type").String()
		inputs := node.Get("inputs")

		if spec, ok := modelLoaders[classType]; ok {
			add(extractFromInputs(spec.category, spec.inputKeys, inputs))
		} else if strings.Contains(classType, "Loader") {
			add(extractFromPatterns(classType, inputs))
		}
		return true
	})

	return models
}

func extractFromInputs(category string, keys []string, inputs gjson.Result) []ModelRef {
	var refs []ModelRef
	for _, key := range keys {
		value := inputs.Get(key)
		// Node links arrive as arrays; only literal strings name a model.
		if value.Type == gjson.String && value.Str != "" {
			refs = append(refs, newModelRef(category, value.Str))
		}
	}
	return refs
}

func extractFromPatterns(classType string, inputs gjson.Result) []ModelRef {
	lowered := strings.ToLower(classType)
	for _, pattern := range loaderPatterns {
		if !strings.Contains(lowered, strings.ToLower(pattern.substr)) {
			continue
		}
		for _, key := range pattern.possibleKeys {
			value := inputs.Get(key)
			if value.Type == gjson.String && value.Str != "" {
				return []ModelRef{newModelRef(pattern.category, value.Str)}
			}
		}
		return nil
	}
	return nil
}

func newModelRef(category, name string) ModelRef {
	return ModelRef{
		Category: category,
		Name:     name,
		ModelID:  category + "/" + name,
	}
}
