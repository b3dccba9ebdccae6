package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ingredient-analyzer/internal/pkg/common"
)

// Completer 文字模型
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RemotePredictor 以聊天模型判斷成分風險
type RemotePredictor struct {
	completer Completer
	labels    []string
}

// NewRemotePredictor labels 為要求模型回答的風險字串
func NewRemotePredictor(completer Completer, labels []string) *RemotePredictor {
	return &RemotePredictor{completer: completer, labels: labels}
}

const remotePrompt = `You classify food ingredients and additives by health risk.
Answer only with JSON of the form {"risk": "<label>"} where <label> is one of: %s.
Ingredient: %s`

// Predict 呼叫模型並解析回覆中的風險字串
func (p *RemotePredictor) Predict(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(remotePrompt, strings.Join(p.labels, ", "), strings.TrimSpace(text))
	content, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return p.parseLabel(content)
}

func (p *RemotePredictor) parseLabel(content string) (string, error) {
	var reply struct {
		Risk string `json:"risk"`
	}
	label := ""
	if err := common.ParseJSON(common.ExtractJSONObject(content), &reply); err == nil {
		label = reply.Risk
	} else {
		label, _, _ = strings.Cut(strings.TrimSpace(content), "\n")
	}

	label = strings.Trim(strings.TrimSpace(label), "\"'`*.")
	if label == "" {
		return "", errors.New("empty risk label in model reply")
	}
	for _, known := range p.labels {
		if strings.EqualFold(known, label) {
			return known, nil
		}
	}
	return label, nil
}
