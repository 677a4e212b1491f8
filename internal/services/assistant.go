package services

import (
	"fmt"
	"strings"
)

type Assistant struct {
	Model                 AssistantModel `json:"model"`
	Voice                 AssistantVoice `json:"voice"`
	FirstMessage          string         `json:"firstMessage"`
	RecordingEnabled      bool           `json:"recordingEnabled"`
	HipaaEnabled          bool           `json:"hipaaEnabled"`
	SilenceTimeoutSeconds int            `json:"silenceTimeoutSeconds"`
	ResponseDelaySeconds  float64        `json:"responseDelaySeconds"`
}

type AssistantModel struct {
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	Temperature   float64 `json:"temperature"`
	SystemMessage string  `json:"systemMessage"`
}

type AssistantVoice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// BuildInterviewAssistant renders the recruiter persona for one candidate.
// Questions are embedded in order as a numbered script.
func BuildInterviewAssistant(jobTitle, jobDescription string, questions []string, candidateName string) Assistant {
	script := make([]string, len(questions))
	for i, q := range questions {
		script[i] = fmt.Sprintf("   %d. %s", i+1, q)
	}

	systemMessage := fmt.Sprintf(`You are an AI recruiter conducting a voice interview for the position of %s.

Candidate Information:
- Name: %s
- Position: %s

Job Description: %s

Interview Instructions:
1. Start by greeting the candidate warmly and introducing yourself as an AI recruiter
2. Briefly explain the interview process and expected duration (15-20 minutes)
3. Ask the following questions one by one, waiting for complete responses:
%s
4. After each response, provide brief acknowledgment and ask follow-up questions if needed
5. Keep the conversation professional but friendly
6. At the end, thank the candidate and explain next steps

Guidelines:
- Listen actively and ask clarifying follow-up questions
- Maintain a conversational tone
- If the candidate seems nervous, be encouraging
- Keep track of time and pace accordingly
- End the interview gracefully after all questions are covered

Remember to be professional, empathetic, and thorough in your evaluation.`,
		jobTitle, candidateName, jobTitle, jobDescription, strings.Join(script, "\n"))

	return Assistant{
		Model: AssistantModel{
			Provider:      "openai",
			Model:         "gpt-4",
			Temperature:   0.7,
			SystemMessage: systemMessage,
		},
		Voice: AssistantVoice{
			Provider: "openai",
			VoiceID:  "alloy",
		},
		FirstMessage: fmt.Sprintf("Hello %s! I'm Sarah, an AI recruiter, and I'm excited to speak with you today about the %s position. "+
			"This interview will take about 15-20 minutes, and I'll be asking you several questions about your experience and qualifications. "+
			"Are you ready to get started?", candidateName, jobTitle),
		RecordingEnabled:      true,
		HipaaEnabled:          false,
		SilenceTimeoutSeconds: 30,
		ResponseDelaySeconds:  1,
	}
}
