package ai

import "strings"

const fitSystemPrompt = "You are a technical recruiter. Reply with a single JSON object and nothing else."

const fitPromptTemplate = `Compare the candidate resume below against the job posting and judge the fit.

Resume:
{{RESUME}}

Job posting:
{{JOB}}

Respond with exactly this JSON shape:
{"match_score": <integer 0-100>, "pros": [<strings>], "cons": [<strings>]}

Be specific: pros and cons must reference concrete skills, seniority or conditions from the inputs.`

const extractSystemPrompt = "You are a resume parser. Reply with a single JSON object and nothing else."

const extractPromptTemplate = `Extract a structured profile from the resume text below.

Resume text:
{{RESUME}}

Respond with exactly this JSON shape:
{
  "ai_summary": <string, 2-3 sentences>,
  "years_of_experience": <integer>,
  "technical_skills": [<strings>],
  "soft_skills": [<strings>],
  "certifications": [<strings>],
  "education": [{"degree": <string>, "institution": <string>, "year": <string>}],
  "work_experience": [{"role": <string>, "company": <string>, "duration": <string>, "description": <string>}]
}

Use empty lists for missing sections. Do not invent facts that are not in the text.`

const screenSystemPrompt = "You are a career advisor screening job postings for a candidate. Reply with a single JSON object and nothing else."

const screenPromptTemplate = `Decide whether the candidate should pursue the job posting below.

Candidate profile:
{{PROFILE}}

Job posting:
{{JOB}}

Respond with exactly this JSON shape:
{
  "score": <integer 0-100>,
  "recommendation": <"APPLY" | "CONSIDER" | "IGNORE">,
  "reason": <string, one sentence>,
  "pros": [<strings>],
  "cons": [<strings>],
  "estimated_salary": <string, or "" when the posting gives no signal>
}

APPLY means a strong match worth immediate action, CONSIDER means partial fit, IGNORE means a poor use of the candidate's time.`

func buildFitPrompt(resume, job string) string {
	prompt := strings.ReplaceAll(fitPromptTemplate, "{{RESUME}}", resume)
	return strings.ReplaceAll(prompt, "{{JOB}}", job)
}

func buildExtractPrompt(resume string) string {
	return strings.ReplaceAll(extractPromptTemplate, "{{RESUME}}", resume)
}

func buildScreenPrompt(profile, job string) string {
	prompt := strings.ReplaceAll(screenPromptTemplate, "{{PROFILE}}", profile)
	return strings.ReplaceAll(prompt, "{{JOB}}", job)
}
