package rules

// Deprecated Livewire testing helpers, keyed by method name, mapped to
// the call that replaces them.

var tableAssertMethods = map[string]string{
	"mountTableAction":                          "mountAction(TestAction::make(...)->table(...))",
	"unmountTableAction":                        "unmountAction()",
	"setTableActionData":                        "fillForm()",
	"assertTableActionDataSet":                  "assertSchemaStateSet()",
	"callTableAction":                           "callAction(TestAction::make(...)->table(...), data: [...])",
	"callMountedTableAction":                    "callMountedAction()",
	"assertTableActionExists":                   "assertActionExists(TestAction::make(...)->table(...))",
	"assertTableActionDoesNotExist":             "assertActionDoesNotExist(TestAction::make(...)->table(...))",
	"assertTableActionVisible":                  "assertActionVisible(TestAction::make(...)->table())",
	"assertTableActionHidden":                   "assertActionHidden(TestAction::make(...)->table(...))",
	"assertTableActionEnabled":                  "assertActionEnabled(TestAction::make(...)->table(...))",
	"assertTableActionDisabled":                 "assertActionDisabled(TestAction::make(...)->table(...))",
	"assertTableActionMounted":                  "assertActionMounted(TestAction::make(...)->table(...))",
	"assertTableActionNotMounted":               "assertActionNotMounted(TestAction::make(...)->table(...))",
	"assertTableActionHalted":                   "assertActionHalted(TestAction::make(...)->table(...))",
	"assertHasTableActionErrors":                "assertHasFormErrors()",
	"assertHasNoTableActionErrors":              "assertHasNoFormErrors()",
	"mountTableBulkAction":                      "mountAction(TestAction::make(...)->table()->bulk())",
	"setTableBulkActionData":                    "fillForm()",
	"assertTableBulkActionDataSet":              "assertSchemaStateSet()",
	"callTableBulkAction":                       "selectTableRecords([...])->callAction(TestAction::make(...)->table()->bulk(), data: [...])",
	"callMountedTableBulkAction":                "callMountedAction()",
	"assertTableBulkActionExists":               "assertActionExists(TestAction::make(...)->table()->bulk())",
	"assertTableBulkActionDoesNotExist":         "assertActionDoesNotExist(TestAction::make(...)->table()->bulk())",
	"assertTableBulkActionsExistInOrder":        "assertActionListInOrder([...], $component->instance()->getTable()->getBulkActions(), 'table bulk', BulkAction::class)",
	"assertTableBulkActionVisible":              "assertActionVisible(TestAction::make(...)->table()->bulk())",
	"assertTableBulkActionHidden":               "assertActionHidden(TestAction::make(...)->table()->bulk())",
	"assertTableBulkActionEnabled":              "assertActionEnabled(TestAction::make(...)->table()->bulk())",
	"assertTableBulkActionDisabled":             "assertActionDisabled(TestAction::make(...)->table()->bulk())",
	"assertTableActionHasIcon":                  "assertActionHasIcon(TestAction::make(...)->table(...), ...)",
	"assertTableActionDoesNotHaveIcon":          "assertActionDoesNotHaveIcon(TestAction::make(...)->table(...), ...)",
	"assertTableActionHasLabel":                 "assertActionHasLabel(TestAction::make(...)->table(...), ...)",
	"assertTableActionDoesNotHaveLabel":         "assertActionDoesNotHaveLabel(TestAction::make(...)->table(...), ...)",
	"assertTableActionHasColor":                 "assertActionHasColor(TestAction::make(...)->table(...), ...)",
	"assertTableActionDoesNotHaveColor":         "assertActionDoesNotHaveColor(TestAction::make(...)->table(...), ...)",
	"assertTableBulkActionHasIcon":              "assertActionHasIcon(TestAction::make(...)->table()->bulk(), ...)",
	"assertTableBulkActionDoesNotHaveIcon":      "assertActionDoesNotHaveIcon(TestAction::make(...)->table()->bulk(), ...)",
	"assertTableBulkActionHasLabel":             "assertActionHasLabel(TestAction::make(...)->table()->bulk(), ...)",
	"assertTableBulkActionDoesNotHaveLabel":     "assertActionDoesNotHaveLabel(TestAction::make(...)->table()->bulk(), ...)",
	"assertTableBulkActionHasColor":             "assertActionHasColor(TestAction::make(...)->table()->bulk(), ...)",
	"assertTableBulkActionDoesNotHaveColor":     "assertActionDoesNotHaveColor(TestAction::make(...)->table()->bulk(), ...)",
	"assertTableActionHasUrl":                   "assertActionHasUrl(TestAction::make(...)->table(...), ...)",
	"assertTableActionDoesNotHaveUrl":           "assertActionDoesNotHaveUrl(TestAction::make(...)->table(...), ...)",
	"assertTableActionShouldOpenUrlInNewTab":    "assertActionShouldOpenUrlInNewTab(TestAction::make(...)->table(...))",
	"assertTableActionShouldNotOpenUrlInNewTab": "assertActionShouldNotOpenUrlInNewTab(TestAction::make(...)->table(...))",
	"assertTableBulkActionMounted":              "assertActionMounted(TestAction::make(...)->table()->bulk())",
	"assertTableBulkActionNotMounted":           "assertActionNotMounted(TestAction::make(...)->table()->bulk())",
	"assertTableBulkActionHalted":               "assertActionHalted(TestAction::make(...)->table()->bulk())",
	"assertHasTableBulkActionErrors":            "assertHasFormErrors()",
	"assertHasNoTableBulkActionErrors":          "assertHasNoFormErrors()",
}

var actionAssertMethods = map[string]string{
	"setActionData":           "fillForm()",
	"assertActionDataSet":     "assertSchemaStateSet()",
	"assertHasActionErrors":   "assertHasFormErrors()",
	"assertHasNoActionErrors": "assertHasNoFormErrors()",
}

var formAssertMethods = map[string]string{
	"assertFormSet":                                     "assertSchemaStateSet()",
	"assertFormExists":                                  "assertSchemaExists()",
	"assertFormFieldHidden":                             "assertSchemaComponentHidden()",
	"assertFormFieldVisible":                            "assertSchemaComponentVisible()",
	"assertFormComponentExists":                         "assertSchemaComponentExists()",
	"assertFormComponentDoesNotExist":                   "assertSchemaComponentDoesNotExist()",
	"mountFormComponentAction":                          "mountAction(TestAction::make(...)->schemaComponent(...))",
	"unmountFormComponentAction":                        "unmountAction()",
	"setFormComponentActionData":                        "fillForm()",
	"assertFormComponentActionDataSet":                  "assertSchemaStateSet()",
	"callFormComponentAction":                           "callAction(TestAction::make(...)->schemaComponent(...), data: [...])",
	"callMountedFormComponentAction":                    "callMountedAction()",
	"assertFormComponentActionExists":                   "assertActionExists(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionDoesNotExist":             "assertActionDoesNotExist(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionVisible":                  "assertActionVisible(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionHidden":                   "assertActionHidden(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionEnabled":                  "assertActionEnabled(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionDisabled":                 "assertActionDisabled(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionMounted":                  "assertActionMounted(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionNotMounted":               "assertActionNotMounted(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionHalted":                   "assertActionHalted(TestAction::make(...)->schemaComponent(...))",
	"assertHasFormComponentActionErrors":                "assertHasFormErrors()",
	"assertHasNoFormComponentActionErrors":              "assertHasNoFormErrors()",
	"assertFormComponentActionHasIcon":                  "assertActionHasIcon(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionDoesNotHaveIcon":          "assertActionDoesNotHaveIcon(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionHasLabel":                 "assertActionHasLabel(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionDoesNotHaveLabel":         "assertActionDoesNotHaveLabel(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionHasColor":                 "assertActionHasColor(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionDoesNotHaveColor":         "assertActionDoesNotHaveColor(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionHasUrl":                   "assertActionHasUrl(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionDoesNotHaveUrl":           "assertActionDoesNotHaveUrl(TestAction::make(...)->schemaComponent(...), ...)",
	"assertFormComponentActionShouldOpenUrlInNewTab":    "assertActionShouldOpenUrlInNewTab(TestAction::make(...)->schemaComponent(...))",
	"assertFormComponentActionShouldNotOpenUrlInNewTab": "assertActionShouldNotOpenUrlInNewTab(TestAction::make(...)->schemaComponent(...))",
}

var infolistAssertMethods = map[string]string{
	"mountInfolistAction":                          "mountAction(TestAction::make(...)->schemaComponent(...))",
	"unmountInfolistAction":                        "unmountAction()",
	"setInfolistActionData":                        "fillForm()",
	"assertInfolistActionDataSet":                  "assertSchemaStateSet()",
	"callInfolistAction":                           "callAction(TestAction::make(...)->schemaComponent(...), data: [...])",
	"callMountedInfolistAction":                    "callMountedAction()",
	"assertInfolistActionExists":                   "assertActionExists(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionDoesNotExist":             "assertActionDoesNotExist(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionVisible":                  "assertActionVisible(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionHidden":                   "assertActionHidden(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionEnabled":                  "assertActionEnabled(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionDisabled":                 "assertActionDisabled(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionMounted":                  "assertActionMounted(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionNotMounted":               "assertActionNotMounted(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionHalted":                   "assertActionHalted(TestAction::make(...)->schemaComponent(...))",
	"assertHasInfolistActionErrors":                "assertHasFormErrors()",
	"assertHasNoInfolistActionErrors":              "assertHasNoFormErrors()",
	"assertInfolistActionHasIcon":                  "assertActionHasIcon(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionDoesNotHaveIcon":          "assertActionDoesNotHaveIcon(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionHasLabel":                 "assertActionHasLabel(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionDoesNotHaveLabel":         "assertActionDoesNotHaveLabel(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionHasColor":                 "assertActionHasColor(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionDoesNotHaveColor":         "assertActionDoesNotHaveColor(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionHasUrl":                   "assertActionHasUrl(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionDoesNotHaveUrl":           "assertActionDoesNotHaveUrl(TestAction::make(...)->schemaComponent(...), ...)",
	"assertInfolistActionShouldOpenUrlInNewTab":    "assertActionShouldOpenUrlInNewTab(TestAction::make(...)->schemaComponent(...))",
	"assertInfolistActionShouldNotOpenUrlInNewTab": "assertActionShouldNotOpenUrlInNewTab(TestAction::make(...)->schemaComponent(...))",
}
