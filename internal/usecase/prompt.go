package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

const profileSystemPrompt = `You are a strict resume screening engine. ` +
	`Respond with a single JSON object and nothing else.`

// buildProfilePrompt asks the model for the full skill profile of one
// JD x resume pair, grounded on retrieved knowledge context.
func buildProfilePrompt(ragContext, jd, resume string) string {
	var b strings.Builder
	b.WriteString("Analyze the job description and resume below.\n")
	b.WriteString("Return JSON with keys: jdRequiredSkills, strongSkills, weakSkills, ")
	b.WriteString("matchedSkills, missingSkills, mandatorySkills, preferredSkills ")
	b.WriteString("(arrays of skill names), jdRole, resumeTitle, education, summary, ")
	b.WriteString("strength, improvementArea, recommendation (strings), resumeTips, ")
	b.WriteString("skillTips, proTips, careerGrowthSkills (arrays of strings).\n")
	if ragContext != "" {
		b.WriteString("\nKnowledge context:\n")
		b.WriteString(ragContext)
		b.WriteString("\n")
	}
	b.WriteString("\nJob description:\n")
	b.WriteString(jd)
	b.WriteString("\n\nResume:\n")
	b.WriteString(resume)
	return b.String()
}

// Intent keys for the intent-template cache.
const (
	IntentSkillExplanation = "skill_explanation"
	IntentLearningRoadmap  = "learning_roadmap"
	IntentSkillGapAnalysis = "skill_gap_analysis"
	IntentInterviewPrep    = "interview_prep"
	IntentProjectIdeas     = "project_ideas"
	IntentCareerSwitch     = "career_switch"
	IntentJobRequirements  = "job_requirements"
	IntentGeneralAdvice    = "general_advice"
	IntentGratitude        = "gratitude"
)

// defaultIntentTemplates seed the intent cache; the cache lets operators
// swap templates at runtime without a restart inside one TTL window.
var defaultIntentTemplates = map[string]string{
	IntentSkillExplanation: "Explain the concept clearly with one practical example.",
	IntentLearningRoadmap:  "Lay out a step-by-step learning path with realistic milestones.",
	IntentSkillGapAnalysis: "Focus on the candidate's missing skills and how to close each gap.",
	IntentInterviewPrep:    "Prepare the candidate with likely questions on their matched skills.",
	IntentProjectIdeas:     "Suggest portfolio projects that demonstrate the required skills.",
	IntentCareerSwitch:     "Advise on transitioning roles, highlighting transferable skills.",
	IntentJobRequirements:  "Summarize what this role genuinely requires and why.",
	IntentGeneralAdvice:    "Give focused, actionable career advice.",
}

const letterSystemPrompt = `You are an expert cover letter writer. ` +
	`Return only the finished letter, no commentary.`

const letterTemplate = `{{NAME}}
Phone: {{PHONE}}
Email: {{EMAIL}}

{{DATE}}

{{HIRING_MANAGER}}
{{COMPANY_NAME}}

Dear {{SALUTATION_NAME}},

{{OPENING_PARAGRAPH}}

{{BODY_PARAGRAPH_1}}

{{BODY_PARAGRAPH_2}}

{{CALL_TO_ACTION}}

Sincerely,
{{NAME}}
`

// buildLetterPrompt asks the model to fill the business-letter template from
// the candidate and job details.
func buildLetterPrompt(req domain.CoverLetterRequest, date string) string {
	var b strings.Builder
	b.WriteString("Write a polished, ATS-friendly cover letter in standard business format.\n")
	b.WriteString("Replace every {{PLACEHOLDER}} in the template and leave no braces in the output.\n")
	b.WriteString("Keep the structure, ground every claim in the job description, ")
	b.WriteString("and quantify achievements where possible.\n")
	b.WriteString("\nTemplate:\n")
	b.WriteString(letterTemplate)
	fmt.Fprintf(&b, "\nCandidate:\nName: %s\nPhone: %s\nEmail: %s\n",
		req.FullName, req.Phone, req.Email)
	fmt.Fprintf(&b, "\nJob:\nTitle: %s\nCompany: %s\nHiring manager: %s\nDate: %s\n",
		req.JobTitle, req.CompanyName, req.HiringManager, date)
	b.WriteString("\nJob description:\n")
	b.WriteString(req.JobDescription)
	return b.String()
}

// buildCareerPrompt composes the chat prompt from the question, analysis
// context, the intent template, and retrieved knowledge snippets.
func buildCareerPrompt(question, resume, jd string, p domain.SkillProfile, template, ragContext string) string {
	var b strings.Builder
	b.WriteString("You are a career advisor. ")
	b.WriteString(template)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	if p.JDRole != "" {
		fmt.Fprintf(&b, "\nTarget role: %s", p.JDRole)
	}
	if p.FitScore > 0 {
		fmt.Fprintf(&b, "\nCurrent fit score: %.0f%%", p.FitScore)
	}
	if len(p.MatchedSkills) > 0 {
		fmt.Fprintf(&b, "\nMatched skills: %s", strings.Join(p.MatchedSkills, ", "))
	}
	if len(p.MissingSkills) > 0 {
		fmt.Fprintf(&b, "\nMissing skills: %s", strings.Join(p.MissingSkills, ", "))
	}
	if ragContext != "" {
		b.WriteString("\n\nKnowledge context:\n")
		b.WriteString(ragContext)
	}
	if jd != "" {
		b.WriteString("\n\nJob description:\n")
		b.WriteString(jd)
	}
	if resume != "" {
		b.WriteString("\n\nResume:\n")
		b.WriteString(resume)
	}
	return b.String()
}
