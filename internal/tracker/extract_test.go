package tracker

import "testing"

func TestExtractModels_StandardLoaders(t *testing.T) {
	prompt := []byte(`{
		"1": {"class_type": "CheckpointLoaderSimple", "inputs": {"ckpt_name": "sdxl_base.safetensors"}},
		"2": {"class_type": "LoraLoader", "inputs": {"lora_name": "detail.safetensors", "strength_model": 0.8, "model": ["1", 0]}},
		"3": {"class_type": "VAELoader", "inputs": {"vae_name": "sdxl_vae.safetensors"}},
		"4": {"class_type": "KSampler", "inputs": {"seed": 42}}
	}`)

	models := ExtractModels(prompt)
	if len(models) != 3 {
		t.Fatalf("got %d models, want 3: %+v", len(models), models)
	}

	byID := make(map[string]ModelRef)
	for _, m := range models {
		byID[m.ModelID] = m
	}
	if m, ok := byID["checkpoint/sdxl_base.safetensors"]; !ok || m.Category != "checkpoint" {
		t.Errorf("checkpoint not extracted: %+v", byID)
	}
	if _, ok := byID["lora/detail.safetensors"]; !ok {
		t.Errorf("lora not extracted: %+v", byID)
	}
	if _, ok := byID["vae/sdxl_vae.safetensors"]; !ok {
		t.Errorf("vae not extracted: %+v", byID)
	}
}

func TestExtractModels_MultiKeyLoader(t *testing.T) {
	prompt := []byte(`{
		"1": {"class_type": "DualCLIPLoader", "inputs": {"clip_name1": "clip_l.safetensors", "clip_name2": "t5xxl.safetensors"}}
	}`)

	models := ExtractModels(prompt)
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	for _, m := range models {
		if m.Category != "clip" {
			t.Errorf("category = %q, want clip", m.Category)
		}
	}
}

func TestExtractModels_PatternFallback(t *testing.T) {
	prompt := []byte(`{
		"1": {"class_type": "EfficientCheckpointLoader", "inputs": {"ckpt_name": "dream.safetensors"}},
		"2": {"class_type": "ImpactLoraLoaderStacked", "inputs": {"lora": "pose.safetensors"}},
		"3": {"class_type": "SomeLoaderWithoutKnownKeys", "inputs": {"whatever": "x"}}
	}`)

	models := ExtractModels(prompt)
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2: %+v", len(models), models)
	}
	if models[0].ModelID != "checkpoint/dream.safetensors" {
		t.Errorf("first = %+v", models[0])
	}
	if models[1].ModelID != "lora/pose.safetensors" {
		t.Errorf("second = %+v", models[1])
	}
}

func TestExtractModels_PatternUsesFirstMatchOnly(t *testing.T) {
	// "CheckpointLoraLoader" matches the Checkpoint pattern first; the
	// Lora pattern must not fire as well.
	prompt := []byte(`{
		"1": {"class_type": "CheckpointLoraLoader", "inputs": {"ckpt_name": "a.safetensors", "lora_name": "b.safetensors"}}
	}`)

	models := ExtractModels(prompt)
	if len(models) != 1 {
		t.Fatalf("got %d models, want 1: %+v", len(models), models)
	}
	if models[0].Category != "checkpoint" {
		t.Errorf("category = %q, want checkpoint", models[0].Category)
	}
}

func TestExtractModels_DeduplicatesWithinPrompt(t *testing.T) {
	prompt := []byte(`{
		"1": {"class_type": "LoraLoader", "inputs": {"lora_name": "same.safetensors"}},
		"2": {"class_type": "LoraLoader", "inputs": {"lora_name": "same.safetensors"}}
	}`)

	models := ExtractModels(prompt)
	if len(models) != 1 {
		t.Fatalf("got %d models, want 1", len(models))
	}
}

func TestExtractModels_IgnoresNonStringInputs(t *testing.T) {
	prompt := []byte(`{
		"1": {"class_type": "VAELoader", "inputs": {"vae_name": ["4", 2]}}
	}`)

	if models := ExtractModels(prompt); len(models) != 0 {
		t.Fatalf("linked input should not extract, got %+v", models)
	}
}

func TestExtractModels_MalformedDocument(t *testing.T) {
	for _, doc := range []string{``, `[]`, `"str"`, `{broken`} {
		if models := ExtractModels([]byte(doc)); len(models) != 0 {
			t.Errorf("doc %q: got %+v, want none", doc, models)
		}
	}
}
