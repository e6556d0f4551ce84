package extraction

const productionSystemPrompt = `You read daily dyeing production reports of a textile group with two business units, Lantabur and Taqwa.
Answer with a single JSON object and nothing else.`

const productionPrompt = `Extract the report into this JSON structure:
{
  "date": "report date exactly as printed, e.g. 15 Jan 2024",
  "lantabur": {
    "total": number,
    "loadingCap": number,
    "colorGroups": [{"groupName": string, "weight": number, "percentage": number}],
    "inhouse": number,
    "subContract": number
  },
  "taqwa": { same fields as lantabur }
}
Rules:
- Weights are kilograms. Drop thousands separators.
- Copy "Color Group Wise" names verbatim (for example "Double Part" and "Double Part -Black" stay separate).
- Use 0 for any figure that is missing or unreadable.
- Use "" for the date when none is printed.`

const rftSystemPrompt = `You read right-first-time (RFT) dyeing registries of a textile plant.
Answer with a single JSON object and nothing else.`

const rftPrompt = `Extract the registry into this JSON structure:
{
  "date": "report date exactly as printed",
  "unit": string,
  "companyName": string,
  "entries": [{
    "mc": string, "batchNo": string, "buyer": string, "order": string,
    "colour": string, "colorGroup": string, "fType": string,
    "fQty": number, "loadCapPercent": number,
    "shadeOk": boolean, "shadeNotOk": boolean,
    "dyeingType": string, "shiftUnload": string, "remarks": string
  }],
  "bulkRftPercent": number,
  "labRftPercent": number,
  "shiftPerformance": {"yousuf": number, "humayun": number},
  "shiftCount": {"yousuf": number, "humayun": number}
}
Rules:
- One entry per batch row, in printed order.
- shadeOk and shadeNotOk reflect the tick boxes; leave both false when neither is ticked.
- Use 0, "" or false for anything missing.`
