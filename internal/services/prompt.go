package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionsPrompt asks for the interview script of a job posting.
func (pb *PromptBuilder) BuildQuestionsPrompt(jobTitle, jobDescription string, skills []string, experienceLevel string) string {
	return fmt.Sprintf(`Generate a comprehensive set of interview questions for the following position:

Job Title: %s
Job Description: %s
Required Skills: %s
Experience Level: %s

Please provide:
1. 8-10 core interview questions that assess both technical skills and cultural fit
2. 3-5 follow-up questions for each core question
3. Key evaluation criteria for this role

Format the response as a JSON object with the following structure:
{
  "role": "%s",
  "questions": ["question1", "question2", ...],
  "followUpQuestions": ["followup1", "followup2", ...],
  "evaluationCriteria": ["criteria1", "criteria2", ...]
}

Focus on:
- Technical competency relevant to the role
- Problem-solving abilities
- Communication skills
- Cultural fit
- Leadership potential (if applicable)
- Relevant experience and achievements

Make questions conversational and avoid yes/no questions.`,
		jobTitle, jobDescription, strings.Join(skills, ", "), experienceLevel, jobTitle)
}

// BuildEvaluationPrompt asks for a scored verdict on a finished interview.
// The score weights are applied by the model, not locally.
func (pb *PromptBuilder) BuildEvaluationPrompt(transcript, jobTitle, jobDescription string, questionsAsked, skills []string) string {
	return fmt.Sprintf(`Please evaluate this interview transcript for the following position:

Job Title: %s
Job Description: %s
Required Skills: %s
Questions Asked: %s

Interview Transcript:
%s

Please provide a comprehensive evaluation including:

1. A brief summary of the candidate's responses and overall performance
2. Key strengths demonstrated during the interview
3. Areas for improvement or weaknesses identified
4. A numerical score from 0-100 based on:
   - Technical competency (30%%)
   - Communication skills (25%%)
   - Cultural fit (20%%)
   - Problem-solving ability (15%%)
   - Experience relevance (10%%)
5. A hiring recommendation: "hire", "maybe", or "no-hire"
6. Reasoning for the recommendation

Format the response as a JSON object:
{
  "summary": "Brief summary of candidate performance",
  "strengths": ["strength1", "strength2", "strength3"],
  "weaknesses": ["weakness1", "weakness2"],
  "score": 85,
  "recommendation": "hire",
  "reasoning": "Detailed reasoning for the recommendation"
}

Be objective, fair, and constructive in your evaluation.`,
		jobTitle, jobDescription, strings.Join(skills, ", "), strings.Join(questionsAsked, ", "), transcript)
}

func (pb *PromptBuilder) BuildFollowUpPrompt(previousResponse, originalQuestion, jobContext string) string {
	return fmt.Sprintf(`Based on the candidate's response below, generate 2-3 relevant follow-up questions:

Original Question: %s
Job Context: %s
Candidate's Response: %s

The follow-up questions should:
- Dig deeper into specific aspects of their response
- Clarify any ambiguous points
- Explore practical applications
- Assess depth of knowledge

Return only the questions as a JSON array: ["question1", "question2", "question3"]`,
		originalQuestion, jobContext, previousResponse)
}
