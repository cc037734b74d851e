package service

// RefusalPhrase is the exact sentence the synthesis prompt instructs the
// model to emit when the retrieved context cannot answer the question.
// It is a load-bearing contract string: the fallback detector's trigger
// list (fallbackTriggers) must stay in sync with any rewording here.
const RefusalPhrase = "I don't have enough information to answer that based on the provided documents."

// Disclaimer is prepended to every grounded answer before display.
const Disclaimer = "Gentle reminder: We generally ensure precise information, but do double-check."

// contextualizePrompt rewrites a follow-up question into a standalone one
// so retrieval does not need the chat history.
const contextualizePrompt = `Given a chat history and the latest user question which might reference context in the chat history, formulate a standalone question which can be understood without the chat history. Do NOT answer the question, just reformulate it if needed and otherwise return it as is.`

// synthesisPromptFmt constrains the model to the retrieved context. The
// refusal instruction in guideline 1 must quote RefusalPhrase verbatim.
const synthesisPromptFmt = `You are a knowledge-based AI assistant specializing in providing comprehensive and accurate answers based solely on the provided context. Follow these guidelines:

1. Strictly adhere to the provided context: Do not use any outside knowledge. If the answer isn't in the context, state "I don't have enough information to answer that based on the provided documents."
2. Provide detailed and exhaustive answers: When the context permits, elaborate on the topic, explaining concepts thoroughly and providing relevant specifics.
3. Structure your responses clearly: Use headings, bullet points, or numbered lists when appropriate to make the information easy to read and understand.
4. Maintain accuracy and logical coherence: Ensure all parts of your answer are factually correct according to the context and flow logically.
5. Prioritize answering the user's direct question: While being detailed, ensure the core of your response directly addresses the user's query.

Context:
%s`

// webAnswerFmt renders the fallback answer from the top web result.
const webAnswerFmt = `No document context matched your query, but here's something from the web:

Title: %s
Snippet: %s
Link: %s`

// NoAnswerMessage is the terminal reply when neither the documents nor
// web search produced anything. It never triggers a further fallback.
const NoAnswerMessage = "Sorry, I couldn't find an answer in documents or via web search. Please try rephrasing or uploading more documents."
