package profiles

// profileSchema constrains LLM-generated profiles to the fields the
// calculators read.
const profileSchema = `{
  "type": "object",
  "required": ["personal_data", "credit_score"],
  "properties": {
    "personal_data": {
      "type": "object",
      "required": ["name", "annual_income"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "date_of_birth": {"type": "string"},
        "address": {"type": "string"},
        "phone_number": {"type": "string"},
        "email": {"type": "string"},
        "annual_income": {"type": ["number", "string"]}
      }
    },
    "credit_score": {
      "type": "object",
      "required": ["payment_history", "credit_utilization_ratio", "credit_mix", "length_of_credit_history", "hard_inquiries_count"],
      "properties": {
        "payment_history": {
          "type": "object",
          "required": ["timely_payments", "late_payments"],
          "properties": {
            "timely_payments": {"type": "integer", "minimum": 0},
            "late_payments": {"type": "integer", "minimum": 0}
          }
        },
        "credit_utilization_ratio": {"type": "number", "minimum": 0},
        "credit_mix": {
          "type": "object",
          "additionalProperties": {"type": ["number", "string"]}
        },
        "length_of_credit_history": {"type": "number", "minimum": 0},
        "hard_inquiries_count": {"type": "integer", "minimum": 0},
        "outstanding_debt": {"type": ["number", "string"]},
        "recent_credit_behavior": {"type": "string"},
        "negative_remarks": {"type": ["string", "null"]}
      }
    }
  }
}`
