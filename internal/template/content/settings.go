package content

import (
	"encoding/json"
	"fmt"

	"github.com/tacogips/autopilot/internal/template/model"
)

// SettingsMaxRequestsKey is the editor setting holding the agent iteration limit.
const SettingsMaxRequestsKey = "chat.agent.maxRequests"

type instructionFile struct {
	File string `json:"file"`
}

type editorSettings struct {
	AgentEnabled          bool              `json:"chat.agent.enabled"`
	MaxRequests           int               `json:"chat.agent.maxRequests"`
	UseInstructionFiles   bool              `json:"github.copilot.chat.codeGeneration.useInstructionFiles"`
	CodeGenInstructions   []instructionFile `json:"github.copilot.chat.codeGeneration.instructions"`
	PromptFilesEnabled    bool              `json:"chat.promptFiles"`
	CommitMessageGuidance []instructionFile `json:"github.copilot.chat.commitMessageGeneration.instructions"`
}

func vscodeSettings(opts model.RenderOptions) (string, error) {
	opts = opts.WithDefaults()
	if opts.MaxIterations < model.MinIterations || opts.MaxIterations > model.MaxIterations {
		return "", fmt.Errorf("max iterations %d out of range %d-%d",
			opts.MaxIterations, model.MinIterations, model.MaxIterations)
	}

	settings := editorSettings{
		AgentEnabled:        true,
		MaxRequests:         opts.MaxIterations,
		UseInstructionFiles: true,
		CodeGenInstructions: []instructionFile{
			{File: PathCopilotInstructions},
		},
		PromptFilesEnabled: true,
		CommitMessageGuidance: []instructionFile{
			{File: PathAgents},
		},
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	return string(data) + "\n", nil
}
