package prompt

// Template names known to the registry out of the box.
const (
	TemplateTicketCategorization = "ticket_categorization"
	TemplateTicketAnalysis       = "ticket_analysis"
	TemplateKBSearch             = "kb_search"
	TemplateChatbotResponse      = "chatbot_response"
)

var defaultTemplates = map[string]template{
	TemplateTicketCategorization: {
		body: `Categorize the following IT support ticket into one of these categories:
{categories}

Ticket Title: {title}
Ticket Description: {description}

Consider:
- Technical keywords and terminology
- Problem domain and scope
- Urgency indicators

Respond with ONLY the category name and confidence score in JSON format:
{"category": "category_name", "confidence": 0.95}`,
		required: []string{"categories", "title", "description"},
	},
	TemplateTicketAnalysis: {
		body: `As an AI IT Support Assistant, analyze the following support ticket and provide comprehensive recommendations based on historical tickets and available IT agents.

CURRENT TICKET:
Title: {title}
Description: {description}
Category: {category}
Priority: {priority}
Department: {department}
User: {user_name} ({user_email})

AVAILABLE IT AGENTS:
{agents}

{historical_context}

Based on this information, provide a detailed analysis in the following JSON format:

{
    "suggested_processor": {
        "name": "Agent Name",
        "reason": "Detailed explanation of why this agent is best suited",
        "confidence": 0.85,
        "skills_match": ["skill1", "skill2"],
        "availability_status": "Available/Busy"
    },
    "self_fix_suggestions": [
        "Step-by-step suggestion 1 that the user can try",
        "Step-by-step suggestion 2 with specific instructions"
    ],
    "category_confidence": 0.92,
    "additional_insights": [
        "Insight about potential root cause",
        "Preventive measures suggestion"
    ]
}

Make sure to:
1. Choose the best agent based on skills, experience, and availability
2. Provide practical self-fix steps that are safe for end users
3. Consider similar historical tickets for pattern recognition
4. Provide actionable insights for prevention and improvement`,
		required: []string{
			"title", "description", "category", "priority",
			"department", "user_name", "user_email", "agents", "historical_context",
		},
	},
	TemplateKBSearch: {
		body: `Based on the user's question, suggest the most relevant knowledge base articles:

Question: {question}
Available Articles: {articles}

Rank the articles by relevance and provide the top {max_results} results.
Consider keyword matching, topic relevance, and solution applicability.

Respond in JSON format:
{
    "recommended_articles": [
        {"title": "article_title", "relevance_score": 0.95, "reason": "why this is relevant"}
    ]
}`,
		required: []string{"question", "articles", "max_results"},
	},
	TemplateChatbotResponse: {
		body: `You are an AI IT support assistant. Help the user with their IT-related question or issue.

User Message: {user_message}
{context_info}

Guidelines:
- Be helpful and professional
- Provide step-by-step solutions when possible
- Ask clarifying questions if needed
- Escalate to human agent if issue is complex

Response:`,
		required: []string{"user_message", "context_info"},
	},
}
