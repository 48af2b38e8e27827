package persistence

// progressSchema describes a persisted progress file: the full plan with the
// queue state of every step
const progressSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["order", "name", "level", "cost", "hasBeenQueued"],
    "properties": {
      "order": {"type": "integer", "minimum": 0},
      "name": {"type": "string", "minLength": 1},
      "level": {"type": "integer", "minimum": 1},
      "cost": {
        "type": "object",
        "required": ["met", "kris", "deut"],
        "properties": {
          "met": {"type": "integer"},
          "kris": {"type": "integer"},
          "deut": {"type": "integer"},
          "energy": {"type": "integer"},
          "energyProduction": {"type": "integer"}
        }
      },
      "hasBeenQueued": {"type": "boolean"},
      "queuedAt": {"type": ["string", "null"]},
      "constructionType": {"enum": ["building", "research"]},
      "researchOverride": {"type": "boolean"},
      "minResearchLabLevel": {"type": "integer", "minimum": 0}
    }
  }
}`
