// Package task holds the task record and the in-memory collection.
//
// Tasks persist to a single JSON file (todo_data.json) as a top-level
// array of records:
//
//	[
//	  {
//	    "id": 1,
//	    "text": "Water the plants",
//	    "due": "2024-06-01",
//	    "completed": false,
//	    "created_at": "2024-05-28T09:15:00"
//	  }
//	]
//
// Field rules:
//
//   - "id" and "text" are required; a record missing either is malformed
//     and aborts the whole load.
//   - "due" is either a "YYYY-MM-DD" string or null/absent. A stored due
//     string that does not parse is kept as-is and simply sorts as "no
//     date"; only user input is rejected for bad dates.
//   - "completed" defaults to false when absent.
//   - "created_at" is a local timestamp with second precision and no zone
//     ("2006-01-02T15:04:05"); when absent or unparseable the load time is
//     used instead.
//
// Ids are assigned as 1 + max(existing ids). Deleting the highest-numbered
// task therefore frees its id for reuse by the next add. That is a
// documented property of the format, not an accident; see Collection.NextID.
package task
