package service

// ExamPromptVersion identifies the analysis contract below. Bump it whenever
// the requested JSON shape changes.
const ExamPromptVersion = "v1"

// examAnalysisPrompt instructs the vision model how to lift questions and
// answers off the page images. The JSON shape it mandates is what
// parseOracleExam expects.
const examAnalysisPrompt = `Analyze this exam paper PDF and extract all questions WITH THEIR ANSWERS in a structured format.

FIRST, look for any mark allocation instructions (e.g., "Question 1 to 10 carry 2 marks each", "Each question carries X marks").

For each question, provide:
1. Question number/ID (as integer)
2. Full question text (preserve exact wording)
3. Question type (multiple_choice, short_answer, or essay)
4. If multiple choice, list all options (A, B, C, D, etc.)
5. Point value - USE THE ALLOCATION STATED FOR THAT QUESTION NUMBER, NOT THE SUM OF SUBSECTIONS
   - If the instructions say "Question 1 to 10 carry 2 marks each", then Question 5 = 2 marks total (even if it has parts a, b, c)
   - Only use explicitly shown individual point values if they override the general allocation
6. Page number (1-indexed)
7. has_illustration (boolean) - TRUE if the question refers to or requires an image/diagram/illustration to be answered
   - Examples: "Use all the digits below", "Look at the diagram", "The figure shows", "Refer to the image"
   - If question text says "below", "above", "shown", "diagram", "figure", "image" and there's an illustration, set to true
8. illustration_index (integer, 0-indexed) - If has_illustration is true, indicate which illustration on the page (0 for first, 1 for second, etc.). Default to 0 if only one illustration.
9. is_context_based (boolean) - TRUE if this is a fill-in-the-blank question within a larger passage/text context where the entire page should be shown
10. answer (string) - The correct answer to the question. Look for answer keys, answer sections, or any provided answers in the document.
   - For multiple choice questions with lettered options (A, B, C, D), provide the LETTER (e.g., "A", "B", "C", "D")
   - For multiple choice questions with numbered options like "(1) in, (2) on, (3) for", provide the ACTUAL TEXT of the correct option (e.g., "in", "on", "for"), NOT the number
   - For visual fractions (numerator over denominator), write as "numerator/denominator" (e.g., "2/3")
   - For equations, provide the final answer after the equals sign
   - If the answer is not provided in the document, set to null

IMPORTANT RULES FOR DIFFERENT QUESTION TYPES:

1. FILL-IN-THE-BLANK WITH CONTEXT (like vocabulary in passage):
   - Each blank/question number should be SEPARATE (Q7, Q8, etc.)
   - Set is_context_based to TRUE for all questions in that section
   - Set has_illustration to TRUE (to show the full page)
   - Question text should just be the question number/identifier (e.g., "Question 7", "Question 8")
   - The full page will serve as the context/reference

2. REGULAR SUBSECTIONS (like math problems with parts a, b, c):
   - COMBINE into ONE question entry
   - Include the main question stem FIRST, then subsections
   - Separate subsections with double line breaks (\n\n)
   - DO NOT include the main question number (like "5a", "5b") - only use a), b), c)
   - For subsection answers, provide a JSON object mapping subsection letters to answers

3. COMPREHENSION PASSAGES:
   - Each question should be separate
   - Set is_context_based to TRUE
   - Set has_illustration to TRUE
   - Include the full question text

IMPORTANT: If a question has subsections (a, b, c, etc.), COMBINE them into ONE question entry:
- FIRST, include the main question stem/context if present
- THEN add each subsection as "a) [question text]", "b) [question text]", etc.
- Separate the main stem and subsections with double line breaks (\n\n)
- DO NOT include the main question number (like "13a", "13b") - only use a), b), c)
- DO NOT include "Question X:" prefix
- The points value is for the ENTIRE question, not per subsection
- If ANY subsection needs an illustration, set has_illustration to true for the entire question
- For subsection answers, provide a JSON object mapping subsection letters to answers

Return the data in this JSON format:
{
  "title": "Exam title from the document",
  "questions": [
    {
      "id": 1,
      "text": "Jason won a computer _____________ an Art contest.\n(1) in\n(2) on\n(3) for\n(4) with",
      "type": "multiple_choice",
      "options": ["in", "on", "for", "with"],
      "points": 1,
      "page": 1,
      "has_illustration": false,
      "answer": "in"
    },
    {
      "id": 2,
      "text": "What is the capital of France?\nA. London\nB. Paris\nC. Berlin\nD. Madrid",
      "type": "multiple_choice",
      "options": ["A. London", "B. Paris", "C. Berlin", "D. Madrid"],
      "points": 2,
      "page": 1,
      "has_illustration": false,
      "answer": "B"
    },
    {
      "id": 3,
      "text": "Use all the digits below to form the smallest 4-digit number.",
      "type": "short_answer",
      "points": 2,
      "page": 1,
      "has_illustration": true,
      "illustration_index": 0,
      "answer": "1234"
    },
    {
      "id": 13,
      "text": "School A has 3064 story books in its library. School B has 4 times as many books as School A.\n\na) How many more story books does School B have than School A?\n\nb) How many story books must be moved from School B to School A so that there will be the same number of books in both schools?",
      "type": "short_answer",
      "points": 2,
      "page": 3,
      "has_illustration": false,
      "answer": {
        "a)": "9192",
        "b)": "4596"
      }
    }
  ]
}

Important:
- Extract ALL questions visible in the pages
- For questions with subsections: include the main question stem FIRST, then the subsections
- COMBINE subsections into ONE question with subsections labeled ONLY as a), b), c)
- Set is_context_based to TRUE for questions where the full page context is needed
- Set has_illustration to TRUE for is_context_based questions
- Remove all question number prefixes from the text (no "5a", "Question 5", etc.)
- Preserve question wording exactly as it appears
- USE THE MARK ALLOCATION FROM THE INSTRUCTIONS (e.g., if it says Q1-10 = 2 marks each, then Q5 = 2 marks total)
- Accurately identify questions that need illustrations to be answered
- Provide illustration_index for questions with illustrations (0 for first image on page, 1 for second, etc.)
- EXTRACT ANSWERS from any answer key section or inline answers in the document
- For multiple choice with numbered options (1), (2), (3): extract the TEXT of the correct option, NOT the number
- For multiple choice with lettered options A, B, C, D: extract the LETTER only
- For fractions shown visually, convert to "numerator/denominator" format
- Ignore watermarks like "www.sgexam.com"
- If no explicit point values or allocation instructions are shown, omit the points field`
