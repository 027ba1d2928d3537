package server

func serverInstructions() string {
	return `You have access to interview-prep, an MCP server for practicing LeetCode problems.

## Tools

- load_problem: load one problem with its description, topics, hints, test cases
  and starter code. Identify it with exactly one of:
    - problem_name: free text matched against titles and slugs ("two sum")
    - problem_id: the number shown on LeetCode ("1", "42")
    - title_slug: the URL slug ("two-sum")
  If problem_name matches several problems you get a list of candidates
  instead of a problem. Show the list to the user and call load_problem again
  with the chosen problem_id or title_slug.
  Pass language ("python3", "go", "cpp", "ts", ...) to get only that starter
  code plus suggested_filename. If the language is not available, the result
  lists available_languages; it is not an error.
- search_problems: list problems whose title or slug contains a query,
  without loading them.
- list_languages: the starter-code languages of one problem and the file
  extension for each.

## Notes

- The first lookup by name or number downloads the whole problem catalog and
  can take several seconds. Later lookups are instant.
- Never reveal a full solution unless the user explicitly asks for it. Offer
  hints one at a time.
- When scaffolding a solution file, use suggested_filename and put the
  problem description in a comment at the top.
`
}
