package extractor

import (
	"strings"
	"time"

	"github.com/nafisr/catatuang/internal/schema"
)

// buildPrompt assembles the full instruction prompt for one extraction. The
// prompt is deterministic given the user text and the server time: the
// vocabularies are fixed in internal/schema and the rules never change.
func buildPrompt(userText string, now time.Time) string {
	categoriesStr := strings.Join(schema.DefaultCategories, ", ")
	accountsStr := strings.Join(schema.DefaultAccounts, ", ")

	var b strings.Builder
	b.WriteString("You are a Financial Assistant whose job is to extract structured transaction details ")
	b.WriteString("from a free-text Indonesian user input and return a strictly valid JSON.\n\n")

	b.WriteString("User Input:\n\"")
	b.WriteString(userText)
	b.WriteString("\"\n\n")

	b.WriteString("Server Time (Current):\n")
	b.WriteString(now.Format(time.RFC3339))
	b.WriteString("\n\n")

	b.WriteString("Valid Categories:\n[" + categoriesStr + "]\n\n")
	b.WriteString("Valid Accounts:\n[" + accountsStr + "]\n\n")

	b.WriteString("--- EXTRACTION RULES ---\n\n")

	b.WriteString("1. amount (number)\n")
	b.WriteString("- Detect monetary value even if the user does NOT write \"Rp\" or \"IDR\".\n")
	b.WriteString("- Understand Indonesian numeric formats:\n")
	b.WriteString("  - 15rb, 15 ribu, 15ribu, 15k, 15K -> 15000\n")
	b.WriteString("  - 1jt, 1 juta, 1juta, 1m -> 1000000\n")
	b.WriteString("  - 1.500, 1,500, 1500 -> 1500\n")
	b.WriteString("  - Rp 15.000, rp15000 -> 15000\n")
	b.WriteString("- If multiple numbers exist, pick the main monetary amount.\n")
	b.WriteString("- Always output a plain integer, no decimals.\n")
	b.WriteString("- If no number is found, set \"amount\" = 0.\n\n")

	b.WriteString("2. category (string)\n")
	b.WriteString("- Select the most relevant category from the provided list.\n")
	b.WriteString("- If uncertain, choose \"" + schema.FallbackCategory + "\".\n\n")

	b.WriteString("3. account (string)\n")
	b.WriteString("- If the user mentions a wallet/bank (e.g., gopay, ovo, bca, cash), use it.\n")
	b.WriteString("- If not mentioned, default to \"" + schema.FallbackAccount + "\".\n\n")

	b.WriteString("4. type (string)\n")
	b.WriteString("- \"expense\" if money goes out (buy, pay, top up, etc.).\n")
	b.WriteString("- \"income\" if money comes in (salary, transfer in, bonus, etc.).\n\n")

	b.WriteString("5. note (string)\n")
	b.WriteString("- Create a short summary in Title Case.\n")
	b.WriteString("- Do not include numbers in the note.\n\n")

	b.WriteString("6. date (string)\n")
	b.WriteString("- Output must always be ISO 8601 format.\n")
	b.WriteString("- If the text contains relative time (e.g., \"kemarin\", \"besok\", \"lusa\"), adjust based on the server time.\n")
	b.WriteString("- If no time mentioned, use the server time.\n\n")

	b.WriteString("--- STRICT OUTPUT FORMAT ---\n")
	b.WriteString("Return ONLY a JSON object. No markdown. No comments. No surrounding text.\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"amount\": number,\n")
	b.WriteString("  \"category\": \"string\",\n")
	b.WriteString("  \"account\": \"string\",\n")
	b.WriteString("  \"type\": \"expense\" | \"income\",\n")
	b.WriteString("  \"note\": \"string\",\n")
	b.WriteString("  \"date\": \"string\"\n")
	b.WriteString("}\n\n")
	b.WriteString("If unsure, still return a valid JSON object following the structure above.\n")

	return b.String()
}
