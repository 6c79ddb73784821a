package analysis

import (
	"fmt"
	"strings"

	"codearch/internal/types"
)

// Detection prompts see at most this much of the corpus (original cap kept
// separate from the general corpus budget).
const detectionCorpusCap = 80_000

// Chat keeps only the tail of the conversation for context.
const chatHistoryLimit = 10

func analysisPrompt(repoName, corpus string) string {
	return fmt.Sprintf(`You are a senior software architect analyzing the repository "%s".

Analyze the code and return ONLY a valid JSON object (no markdown, no code blocks, no extra text) with this exact structure:

{
    "modules": {
        "module_name": "Brief description of what this module/folder does"
    },
    "architecture": "A detailed markdown description of the system architecture including: overall structure, design patterns, how components interact, and technology stack used.",
    "technical_debt": "A markdown list of technical debt items: code quality issues, missing tests, security concerns, performance issues. If none found, explain why the code is well-maintained.",
    "technical_debt_suggestions": "A markdown list of concrete remediation suggestions for the technical debt items above.",
    "onboarding_guide": "A markdown guide for new developers: how to set up the environment, key files to understand, how to run the project, and how to contribute."
}

Return ONLY the JSON object, nothing else.

Code to analyze:
%s`, repoName, corpus)
}

func chatPrompt(corpus, repoURL, question string, history []types.ChatMessage) string {
	var b strings.Builder
	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}
	for _, msg := range history {
		role := "Assistant"
		if msg.Role == "user" {
			role = "User"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return fmt.Sprintf(`You are an expert code assistant helping a developer understand a codebase.

Repository URL: %s

Repository Content:
%s

Previous conversation:
%s

User's question: %s

Provide a helpful, specific answer based on the actual code in the repository. Reference specific files, functions, or patterns when relevant. Keep your response concise but informative.`,
		repoURL, corpus, b.String(), question)
}

func detectionPrompt(corpus string) string {
	if len(corpus) > detectionCorpusCap {
		corpus = corpus[:detectionCorpusCap]
	}
	return fmt.Sprintf(`You are an expert code analyst specializing in detecting AI-generated code.

Analyze the following codebase and estimate what percentage of the code appears to be AI-generated.

Look for these AI-generated code indicators:
1. **Overly verbose comments** - AI tends to over-explain simple operations
2. **Generic variable naming** - names like 'data', 'result', 'item', 'temp'
3. **Boilerplate patterns** - standard templates without customization
4. **Consistent formatting** - unnaturally perfect indentation and spacing
5. **Defensive programming** - excessive error handling for simple cases
6. **Tutorial-style code** - explanatory comments that read like documentation
7. **Placeholder text** - comments like "TODO: implement this" or "Add your logic here"
8. **Repetitive structures** - similar code blocks with minor variations
9. **Common AI phrases** - "This function does X", "Here we handle", "Below we"
10. **Missing project-specific context** - code that feels generic

Repository Code:
%s

Respond ONLY with valid JSON in this exact format:
{
    "ai_percentage": <number 0-100>,
    "confidence": "<low|medium|high>",
    "human_percentage": <number 0-100>,
    "indicators_found": [
        {
            "indicator": "<indicator name>",
            "severity": "<low|medium|high>",
            "examples": ["<specific example from code>"],
            "file_pattern": "<where this was found>"
        }
    ],
    "summary": "<2-3 sentence summary of findings>",
    "details": {
        "comment_style_score": <0-100>,
        "naming_convention_score": <0-100>,
        "code_structure_score": <0-100>,
        "documentation_pattern_score": <0-100>
    },
    "recommendation": "<advice for the developer>"
}`, corpus)
}
